// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gluectl/gluectl/internal/sales"
)

func date(s string) time.Time {
	t, _ := time.Parse(sales.DateLayout, s)
	return t
}

func fixture() []sales.Order {
	o := func(d, line, code, country string, amt int64) sales.Order {
		return sales.Order{
			OrderDate:   date(d),
			ProductLine: line,
			ProductCode: code,
			Country:     country,
			Amount:      decimal.NewFromInt(amt),
		}
	}
	return []sales.Order{
		o("2004-01-10", "Classic Cars", "P1", "USA", 100),
		o("2004-02-10", "Classic Cars", "P2", "France", 50),
		o("2004-03-10", "Motorcycles", "P3", "USA", 75),
	}
}

func selection() sales.Selection {
	return sales.Selection{
		Start:       date("2004-01-01"),
		End:         date("2004-12-31"),
		Country:     sales.All,
		ProductLine: sales.All,
		Top:         5,
	}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

var (
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	right    = tea.KeyMsg{Type: tea.KeyRight}
	left     = tea.KeyMsg{Type: tea.KeyLeft}
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestNew(t *testing.T) {
	m := New(fixture(), selection(), false)

	assert.Equal(t, []string{sales.All, "France", "USA"}, m.countries)
	assert.Equal(t, []string{sales.All, "Classic Cars", "Motorcycles"}, m.productLines)
	assert.Equal(t, "2004-01-01", m.start.Value())
	assert.Equal(t, fieldStart, m.focus)

	plot := m.Plot()
	assert.Contains(t, plot, "P1")
	assert.Contains(t, plot, "P3")
	assert.Contains(t, plot, "P2")
	assert.Less(t, strings.Index(plot, "P1"), strings.Index(plot, "P3"))
}

func TestNew_ClampsTopAndUnknownOptions(t *testing.T) {
	sel := selection()
	sel.Top = 42
	sel.Country = "Narnia"
	m := New(fixture(), sel, false)

	assert.Equal(t, sales.MaxTop, m.top)
	assert.Equal(t, 0, m.country)
}

func TestFocusCycle(t *testing.T) {
	m := New(fixture(), selection(), false)

	m = send(t, m, tab, tab, tab, tab)
	assert.Equal(t, fieldTop, m.focus)

	m = send(t, m, tab)
	assert.Equal(t, fieldStart, m.focus)
	assert.True(t, m.start.Focused())

	m = send(t, m, shiftTab)
	assert.Equal(t, fieldTop, m.focus)
	assert.False(t, m.start.Focused())
}

func TestDropdownFiltersPlot(t *testing.T) {
	m := New(fixture(), selection(), false)

	// Country: ALL -> France
	m = send(t, m, tab, tab, right)
	sel, err := m.Selection()
	require.NoError(t, err)
	assert.Equal(t, "France", sel.Country)
	assert.Contains(t, m.Plot(), "P2")
	assert.NotContains(t, m.Plot(), "P1")

	// wraps back to the last option
	m = send(t, m, left, left)
	sel, _ = m.Selection()
	assert.Equal(t, "USA", sel.Country)

	// Product line: Motorcycles, USA
	m = send(t, m, tab, right, right)
	sel, _ = m.Selection()
	assert.Equal(t, "Motorcycles", sel.ProductLine)
	assert.Contains(t, m.Plot(), "P3")
	assert.NotContains(t, m.Plot(), "P1")
}

func TestSlider(t *testing.T) {
	m := New(fixture(), selection(), false)
	m = send(t, m, shiftTab)
	require.Equal(t, fieldTop, m.focus)

	m = send(t, m, left, left, left, left, left, left)
	assert.Equal(t, sales.MinTop, m.top)
	assert.Contains(t, m.Plot(), "P1")
	assert.NotContains(t, m.Plot(), "P3")

	for range 20 {
		m = send(t, m, right)
	}
	assert.Equal(t, sales.MaxTop, m.top)
}

func TestInvalidDatesShowError(t *testing.T) {
	m := New(fixture(), selection(), false)

	m.start.SetValue("2004-13-45")
	m = send(t, m, enter)
	assert.Equal(t, PlotError, m.Plot())

	m.start.SetValue("2005-01-01")
	m = send(t, m, enter)
	assert.Equal(t, PlotError, m.Plot(), "end before start")

	m.start.SetValue("2004-01-01")
	m = send(t, m, enter)
	assert.NotEqual(t, PlotError, m.Plot())
}

func TestTypingReplots(t *testing.T) {
	m := New(fixture(), selection(), false)
	m = send(t, m, tab)
	require.Equal(t, fieldEnd, m.focus)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "2004-12-3", m.end.Value())
	assert.Equal(t, PlotError, m.Plot())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.Equal(t, "2004-12-31", m.end.Value())
	assert.Contains(t, m.Plot(), "P1")
}

func TestEmptyResult(t *testing.T) {
	sel := selection()
	sel.Start = date("2010-01-01")
	sel.End = date("2010-12-31")
	m := New(fixture(), sel, false)

	assert.Equal(t,
		"No sales found for country ALL and product line ALL between 2010-01-01 and 2010-12-31.",
		m.Plot())
}

func TestQuit(t *testing.T) {
	m := New(fixture(), selection(), false)
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowSize(t *testing.T) {
	m := New(fixture(), selection(), false)
	m = send(t, m, tea.WindowSizeMsg{Width: 44, Height: 20})
	first := strings.Split(m.Plot(), "\n")[0]
	assert.Len(t, []rune(first), 40)
}

func TestView(t *testing.T) {
	m := New(fixture(), selection(), false)
	v := m.View()
	for _, l := range labels {
		assert.Contains(t, v, l)
	}
	assert.Contains(t, v, "< ALL >")
	assert.Contains(t, v, "■■■■■□□□□□ 5")
}
