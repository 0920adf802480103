// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package chart draws the product sales bar chart in the terminal.
package chart

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/gluectl/gluectl/internal/sales"
)

// DefaultWidth is used when stdout is not a terminal.
const DefaultWidth = 80

const (
	barRune  = "█"
	minWidth = 20
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))
	valueStyle = lipgloss.NewStyle().Faint(true)
)

// Width returns the terminal width of stdout, or DefaultWidth.
func Width() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Money formats v with thousands separators and two decimals.
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Bars renders one horizontal bar per row, product code on the left and the
// sales value on the right. Bar lengths are proportional to the largest
// value; any positive value gets at least one cell.
func Bars(rows []sales.ProductSales, width int, color bool) string {
	if len(rows) == 0 {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}

	labels := make([]string, len(rows))
	values := make([]string, len(rows))
	labelW, valueW := 0, 0
	maxV := 0.0
	for i, r := range rows {
		labels[i] = r.ProductCode
		values[i] = Money(r.Sales)
		labelW = max(labelW, len(labels[i]))
		valueW = max(valueW, len(values[i]))
		maxV = math.Max(maxV, r.Sales)
	}

	barW := max(width-labelW-valueW-2, 1)

	var b strings.Builder
	for i, r := range rows {
		n := 0
		if maxV > 0 && r.Sales > 0 {
			n = max(int(math.Round(r.Sales/maxV*float64(barW))), 1)
		}

		label := fmt.Sprintf("%-*s", labelW, labels[i])
		bar := strings.Repeat(barRune, n) + strings.Repeat(" ", barW-n)
		value := fmt.Sprintf("%*s", valueW, values[i])
		if color {
			label = labelStyle.Render(label)
			bar = barStyle.Render(bar)
			value = valueStyle.Render(value)
		}

		b.WriteString(label + " " + bar + " " + value)
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
