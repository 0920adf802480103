// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gluectl/gluectl/internal/chart"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/sales"
)

// PlotError is what the plot pane shows when the widgets hold a selection
// the cascade rejects.
const PlotError = "error"

type field int

const (
	fieldStart field = iota
	fieldEnd
	fieldCountry
	fieldProductLine
	fieldTop
	fieldCount
)

var labels = [fieldCount]string{
	fieldStart:       "Start",
	fieldEnd:         "End",
	fieldCountry:     "Country",
	fieldProductLine: "Product line",
	fieldTop:         "Top",
}

var (
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4")).Bold(true)
	blurStyle  = lipgloss.NewStyle()
	paneStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#623CE4")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model of the sales panel.
type Model struct {
	orders []sales.Order

	start textinput.Model
	end   textinput.Model

	countries    []string
	productLines []string
	country      int
	productLine  int
	top          int

	focus field
	width int
	color bool
	plot  string
}

// New builds the panel over orders with the widgets preset from sel. Empty
// country or product line values select All.
func New(orders []sales.Order, sel sales.Selection, color bool) Model {
	m := Model{
		orders:       orders,
		start:        dateInput(sel.Start),
		end:          dateInput(sel.End),
		countries:    sales.Options(sales.CountriesOf(orders)),
		productLines: sales.Options(sales.ProductLinesOf(orders)),
		top:          clampTop(sel.Top),
		width:        chart.Width(),
		color:        color,
	}
	m.country = indexOf(m.countries, sel.Country)
	m.productLine = indexOf(m.productLines, sel.ProductLine)
	m.start.Focus()
	m.replot()
	return m
}

func dateInput(t time.Time) textinput.Model {
	ti := textinput.New()
	ti.SetValue(sales.FormatDate(t))
	ti.Placeholder = sales.DateLayout
	ti.CharLimit = len(sales.DateLayout)
	ti.Width = len(sales.DateLayout) + 1
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)
	return ti
}

func indexOf(opts []string, v string) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return 0
}

func clampTop(n int) int {
	return min(max(n, sales.MinTop), sales.MaxTop)
}

// Selection reads the widgets back into a cascade selection.
func (m Model) Selection() (sales.Selection, error) {
	start, err := sales.ParseDate(m.start.Value())
	if err != nil {
		return sales.Selection{}, fmt.Errorf("start: %w", err)
	}
	end, err := sales.ParseDate(m.end.Value())
	if err != nil {
		return sales.Selection{}, fmt.Errorf("end: %w", err)
	}
	return sales.Selection{
		Start:       start,
		End:         end,
		Country:     m.countries[m.country],
		ProductLine: m.productLines[m.productLine],
		Top:         m.top,
	}, nil
}

// Plot returns the current content of the plot pane.
func (m Model) Plot() string {
	return m.plot
}

// replot reruns the cascade. Any failure collapses to PlotError in the pane
// with the cause going to the log.
func (m *Model) replot() {
	sel, err := m.Selection()
	var res sales.Result
	if err == nil {
		res, err = sales.Aggregate(m.orders, sel)
	}
	if err != nil {
		log.Debugf("plot: %v", err)
		m.plot = PlotError
		return
	}
	if len(res.Rows) == 0 {
		m.plot = sales.NoSalesMessage(sel)
		return
	}
	// border and padding
	m.plot = chart.Bars(res.Rows, m.width-4, m.color)
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.replot()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.move(1), textinput.Blink
		case "shift+tab", "up":
			return m.move(-1), textinput.Blink
		case "enter":
			m.replot()
			return m, nil
		case "left", "right":
			if m.focus >= fieldCountry {
				delta := 1
				if msg.String() == "left" {
					delta = -1
				}
				m.step(delta)
				m.replot()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldStart:
		m.start, cmd = m.start.Update(msg)
	case fieldEnd:
		m.end, cmd = m.end.Update(msg)
	default:
		return m, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.replot()
	}
	return m, cmd
}

func (m Model) move(delta int) Model {
	m.focus = (m.focus + field(delta) + fieldCount) % fieldCount
	m.start.Blur()
	m.end.Blur()
	switch m.focus {
	case fieldStart:
		m.start.Focus()
	case fieldEnd:
		m.end.Focus()
	}
	return m
}

// step moves a dropdown or the slider by delta. Dropdowns wrap, the slider
// stops at its bounds.
func (m *Model) step(delta int) {
	wrap := func(i, n int) int { return (i + delta + n) % n }
	switch m.focus {
	case fieldCountry:
		m.country = wrap(m.country, len(m.countries))
	case fieldProductLine:
		m.productLine = wrap(m.productLine, len(m.productLines))
	case fieldTop:
		m.top = clampTop(m.top + delta)
	}
}

func (m Model) View() string {
	var lines []string
	for f := fieldStart; f < fieldCount; f++ {
		style := blurStyle
		if f == m.focus {
			style = focusStyle
		}
		label := style.Render(fmt.Sprintf("%-13s", labels[f]))
		lines = append(lines, label+m.widget(f))
	}

	lines = append(lines, paneStyle.Render(m.plot))
	lines = append(lines, helpStyle.Render("tab/shift+tab: move  ←/→: change  enter: plot  esc: quit"))
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) widget(f field) string {
	switch f {
	case fieldStart:
		return m.start.View()
	case fieldEnd:
		return m.end.View()
	case fieldCountry:
		return "< " + m.countries[m.country] + " >"
	case fieldProductLine:
		return "< " + m.productLines[m.productLine] + " >"
	default:
		filled := strings.Repeat("■", m.top)
		empty := strings.Repeat("□", sales.MaxTop-m.top)
		return fmt.Sprintf("%s%s %d", filled, empty, m.top)
	}
}

// Run starts the panel on the terminal and blocks until the user quits.
func Run(orders []sales.Order, sel sales.Selection, color bool) error {
	_, err := tea.NewProgram(New(orders, sel, color)).Run()
	return err
}
