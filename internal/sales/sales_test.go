// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func order(d, line, code, country, amount string) Order {
	return Order{
		OrderDate:   date(d),
		ProductLine: line,
		ProductCode: code,
		Country:     country,
		Amount:      decimal.RequireFromString(amount),
	}
}

var fixture = []Order{
	order("2024-01-01", "Motorcycles", "P1", "USA", "100"),
	order("2024-01-15", "Motorcycles", "P2", "USA", "40"),
	order("2024-01-20", "Classic Cars", "C1", "France", "250.50"),
	order("2024-01-31", "Classic Cars", "C2", "USA", "75.25"),
	order("2024-02-01", "Motorcycles", "P1", "France", "50"),
	order("2024-02-10", "Motorcycles", "P2", "France", "60"),
	order("2024-03-05", "Classic Cars", "C1", "USA", "10"),
}

func TestAggregate_Example(t *testing.T) {
	orders := []Order{
		order("2024-01-01", "Motorcycles", "P1", "USA", "100"),
		order("2024-02-01", "Motorcycles", "P1", "France", "50"),
	}
	sel := Selection{
		Start:       date("2024-01-01"),
		End:         date("2024-01-31"),
		Country:     All,
		ProductLine: "Motorcycles",
		Top:         5,
	}

	res, err := Aggregate(orders, sel)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "P1", res.Rows[0].ProductCode)
	assert.True(t, res.Rows[0].Sum.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 100.0, res.Rows[0].Sales)
	assert.Equal(t, 1, res.Rows[0].Rank)
	assert.Equal(t, 100.0, res.Rows[0].Share)
}

func TestAggregate_TotalMatchesWindow(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"covers everything", "2023-12-01", "2024-12-31", "585.75"},
		{"january only", "2024-01-01", "2024-01-31", "465.75"},
		{"single day inclusive", "2024-01-31", "2024-01-31", "75.25"},
		{"february", "2024-02-01", "2024-02-29", "110"},
		{"nothing", "2025-01-01", "2025-01-31", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Selection{Start: date(tt.start), End: date(tt.end), Country: All, ProductLine: All, Top: MaxTop}
			res, err := Aggregate(fixture, sel)
			require.NoError(t, err)
			assert.True(t, res.Total.Equal(decimal.RequireFromString(tt.want)), "total %s", res.Total)

			sum := decimal.Zero
			for _, r := range res.Rows {
				sum = sum.Add(r.Sum)
			}
			assert.True(t, sum.Equal(res.Total), "rows sum %s != total %s", sum, res.Total)
		})
	}
}

func TestAggregate_TimeOfDayIgnored(t *testing.T) {
	orders := []Order{{
		OrderDate:   time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
		ProductCode: "P1",
		Country:     "USA",
		ProductLine: "Motorcycles",
		Amount:      decimal.NewFromInt(7),
	}}
	sel := Selection{Start: date("2024-01-01"), End: date("2024-01-31"), Country: All, ProductLine: All, Top: 1}

	res, err := Aggregate(orders, sel)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
}

func TestAggregate_OffsetDatesUseCalendarDay(t *testing.T) {
	parse := func(s string) time.Time {
		d, err := ParseDate(s)
		require.NoError(t, err)
		return d
	}
	orders := []Order{
		{OrderDate: parse("2024-01-31T23:30:00-05:00"), ProductCode: "P1", Country: "USA", ProductLine: "Motorcycles", Amount: decimal.NewFromInt(100)},
		{OrderDate: parse("2024-01-01T10:00:00+05:00"), ProductCode: "P2", Country: "USA", ProductLine: "Motorcycles", Amount: decimal.NewFromInt(40)},
		{OrderDate: parse("2024-02-01T01:00:00+09:00"), ProductCode: "P3", Country: "Japan", ProductLine: "Motorcycles", Amount: decimal.NewFromInt(9)},
		{OrderDate: parse("2023-12-31T22:00:00-08:00"), ProductCode: "P4", Country: "USA", ProductLine: "Motorcycles", Amount: decimal.NewFromInt(5)},
	}
	sel := Selection{Start: date("2024-01-01"), End: date("2024-01-31"), Country: All, ProductLine: All, Top: 5}

	res, err := Aggregate(orders, sel)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matched)
	assert.True(t, decimal.NewFromInt(140).Equal(res.Total), "total %s", res.Total)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "P1", res.Rows[0].ProductCode)
	assert.Equal(t, "P2", res.Rows[1].ProductCode)

	first, last := Bounds(orders)
	assert.Equal(t, "2023-12-31", FormatDate(first))
	assert.Equal(t, "2024-02-01", FormatDate(last))
}

func TestAggregate_OpenBounds(t *testing.T) {
	res, err := Aggregate(fixture, Selection{Country: All, ProductLine: All, Top: MaxTop})
	require.NoError(t, err)
	assert.Equal(t, len(fixture), res.Matched)

	res, err = Aggregate(fixture, Selection{Start: date("2024-02-01"), Country: All, ProductLine: All, Top: MaxTop})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Matched)
}

func TestAggregate_AllSentinels(t *testing.T) {
	window := Selection{Start: date("2024-01-01"), End: date("2024-12-31"), Top: MaxTop}

	t.Run("product line ALL aggregates across lines for one country", func(t *testing.T) {
		sel := window
		sel.Country = "USA"
		sel.ProductLine = All
		res, err := Aggregate(fixture, sel)
		require.NoError(t, err)

		got := map[string]string{}
		for _, r := range res.Rows {
			got[r.ProductCode] = r.Sum.String()
		}
		assert.Equal(t, map[string]string{"P1": "100", "P2": "40", "C1": "10", "C2": "75.25"}, got)
	})

	t.Run("country ALL aggregates across countries", func(t *testing.T) {
		sel := window
		sel.Country = All
		sel.ProductLine = "Motorcycles"
		res, err := Aggregate(fixture, sel)
		require.NoError(t, err)

		require.Len(t, res.Rows, 2)
		assert.Equal(t, "P1", res.Rows[0].ProductCode)
		assert.Equal(t, "150", res.Rows[0].Sum.String())
		assert.Equal(t, "P2", res.Rows[1].ProductCode)
		assert.Equal(t, "100", res.Rows[1].Sum.String())
	})

	t.Run("both concrete", func(t *testing.T) {
		sel := window
		sel.Country = "France"
		sel.ProductLine = "Classic Cars"
		res, err := Aggregate(fixture, sel)
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "C1", res.Rows[0].ProductCode)
		assert.Equal(t, "250.5", res.Rows[0].Sum.String())
	})
}

func TestAggregate_TopBound(t *testing.T) {
	for top := MinTop; top <= MaxTop; top++ {
		res, err := Aggregate(fixture, Selection{Country: All, ProductLine: All, Top: top})
		require.NoError(t, err)
		assert.Len(t, res.Rows, min(top, 4), "top=%d", top)
		for i, r := range res.Rows {
			assert.Equal(t, i+1, r.Rank)
		}
	}
}

func TestAggregate_SortAndTies(t *testing.T) {
	orders := []Order{
		order("2024-01-01", "L", "B", "X", "10"),
		order("2024-01-01", "L", "A", "X", "10"),
		order("2024-01-01", "L", "C", "X", "30"),
	}
	res, err := Aggregate(orders, Selection{Country: All, ProductLine: All, Top: 3})
	require.NoError(t, err)

	var codes []string
	for _, r := range res.Rows {
		codes = append(codes, r.ProductCode)
	}
	assert.Equal(t, []string{"C", "A", "B"}, codes)
	assert.Equal(t, 60.0, res.Rows[0].Share)
	assert.Equal(t, 20.0, res.Rows[1].Share)
}

func TestAggregate_Empty(t *testing.T) {
	res, err := Aggregate(nil, Selection{Country: All, ProductLine: All, Top: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.True(t, res.Total.IsZero())
}

func TestSelection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		wantErr error
	}{
		{"ok", Selection{Start: date("2024-01-01"), End: date("2024-01-31"), Top: 5}, nil},
		{"same day", Selection{Start: date("2024-01-01"), End: date("2024-01-01"), Top: 1}, nil},
		{"open", Selection{Top: 10}, nil},
		{"reversed", Selection{Start: date("2024-02-01"), End: date("2024-01-01"), Top: 5}, ErrInvalidRange},
		{"top zero", Selection{Top: 0}, ErrInvalidTop},
		{"top eleven", Selection{Top: 11}, ErrInvalidTop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			_, aggErr := Aggregate(fixture, tt.sel)
			assert.ErrorIs(t, aggErr, tt.wantErr)
		})
	}
}

func TestNoSalesMessage(t *testing.T) {
	sel := Selection{Start: date("2024-01-01"), End: date("2024-01-31"), Country: "Japan", ProductLine: All}
	assert.Equal(t, "No sales found for country Japan and product line ALL between 2024-01-01 and 2024-01-31.", NoSalesMessage(sel))

	assert.Equal(t, "No sales found for country ALL and product line ALL for any date.", NoSalesMessage(Selection{}))
	assert.Contains(t, NoSalesMessage(Selection{Start: date("2024-01-01")}), "from 2024-01-01")
	assert.Contains(t, NoSalesMessage(Selection{End: date("2024-01-31")}), "up to 2024-01-31")
}
