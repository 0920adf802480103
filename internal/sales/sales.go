// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sales

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gluectl/gluectl/internal/log"
)

// All is the dropdown sentinel meaning "do not filter on this dimension".
const All = "ALL"

// Top-N slider bounds.
const (
	MinTop = 1
	MaxTop = 10
)

var (
	ErrInvalidRange = errors.New("end date precedes start date")
	ErrInvalidTop   = fmt.Errorf("top must be between %d and %d", MinTop, MaxTop)
)

// Order is one fact row.
type Order struct {
	OrderDate   time.Time
	ProductLine string
	ProductCode string
	Country     string
	Amount      decimal.Decimal
}

// Selection is the state of the dashboard widgets.
type Selection struct {
	Start       time.Time
	End         time.Time
	Country     string
	ProductLine string
	Top         int
}

// ProductSales is one ranked output row. Sum is exact; Sales and Share are
// float copies for the output pipeline.
type ProductSales struct {
	ID          string          `jsonapi:"primary,product-sales"`
	ProductCode string          `jsonapi:"attr,product-code"`
	Rank        int             `jsonapi:"attr,rank"`
	Sales       float64         `jsonapi:"attr,sales"`
	Orders      int             `jsonapi:"attr,orders"`
	Share       float64         `jsonapi:"attr,share"`
	Sum         decimal.Decimal `json:"-"`
}

// Result is the outcome of one pass of the cascade.
type Result struct {
	Rows    []ProductSales
	Total   decimal.Decimal
	Matched int
}

// Validate checks the date window and the top-N bound. Zero dates are open
// bounds and never produce ErrInvalidRange.
func (s Selection) Validate() error {
	if !s.Start.IsZero() && !s.End.IsZero() && day(s.End).Before(day(s.Start)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(s.Start), FormatDate(s.End))
	}
	if s.Top < MinTop || s.Top > MaxTop {
		return fmt.Errorf("%w: got %d", ErrInvalidTop, s.Top)
	}
	return nil
}

// Aggregate runs the cascade over orders. The input slice is not modified.
func Aggregate(orders []Order, sel Selection) (Result, error) {
	if err := sel.Validate(); err != nil {
		return Result{}, err
	}

	type bucket struct {
		sum    decimal.Decimal
		orders int
	}

	var (
		start   = day(sel.Start)
		end     = day(sel.End)
		total   = decimal.Zero
		matched int
		groups  = map[string]*bucket{}
	)

	for _, o := range orders {
		d := day(o.OrderDate)
		if !sel.Start.IsZero() && d.Before(start) {
			continue
		}
		if !sel.End.IsZero() && d.After(end) {
			continue
		}
		if sel.ProductLine != All && o.ProductLine != sel.ProductLine {
			continue
		}
		if sel.Country != All && o.Country != sel.Country {
			continue
		}

		matched++
		total = total.Add(o.Amount)

		b, ok := groups[o.ProductCode]
		if !ok {
			b = &bucket{sum: decimal.Zero}
			groups[o.ProductCode] = b
		}
		b.sum = b.sum.Add(o.Amount)
		b.orders++
	}
	log.Debugf("cascade: in=%d matched=%d products=%d", len(orders), matched, len(groups))

	rows := make([]ProductSales, 0, len(groups))
	for code, b := range groups {
		rows = append(rows, ProductSales{
			ProductCode: code,
			Sum:         b.sum,
			Orders:      b.orders,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Sum.Cmp(rows[j].Sum); c != 0 {
			return c > 0
		}
		return rows[i].ProductCode < rows[j].ProductCode
	})

	if len(rows) > sel.Top {
		rows = rows[:sel.Top]
	}

	hundred := decimal.NewFromInt(100)
	for i := range rows {
		r := &rows[i]
		r.Rank = i + 1
		r.ID = strconv.Itoa(r.Rank)
		r.Sales = r.Sum.InexactFloat64()
		if !total.IsZero() {
			r.Share = r.Sum.Mul(hundred).Div(total).Round(2).InexactFloat64()
		}
	}

	return Result{Rows: rows, Total: total, Matched: matched}, nil
}

// NoSalesMessage describes an empty result for the given selection.
func NoSalesMessage(sel Selection) string {
	return fmt.Sprintf("No sales found for country %s and product line %s %s.",
		orAll(sel.Country), orAll(sel.ProductLine), window(sel))
}

func window(sel Selection) string {
	switch {
	case sel.Start.IsZero() && sel.End.IsZero():
		return "for any date"
	case sel.Start.IsZero():
		return "up to " + FormatDate(sel.End)
	case sel.End.IsZero():
		return "from " + FormatDate(sel.Start)
	default:
		return "between " + FormatDate(sel.Start) + " and " + FormatDate(sel.End)
	}
}

func orAll(s string) string {
	if s == "" {
		return All
	}
	return s
}

// day returns t's calendar date, as read in t's own location, at midnight
// UTC. Dates with different offsets compare by calendar day.
func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
