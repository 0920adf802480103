// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sales

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the widget and flag date format.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
}

// ParseDate accepts YYYY-MM-DD plus the timestamp forms Athena and MySQL hand
// back. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want %s", s, DateLayout)
}

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Options returns dropdown choices: All first, then the distinct non-empty
// values in ascending order.
func Options(values []string) []string {
	seen := map[string]bool{}
	opts := []string{}
	for _, v := range values {
		if v == "" || v == All || seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, v)
	}
	sort.Strings(opts)
	return append([]string{All}, opts...)
}

// Bounds returns the earliest and latest order dates, truncated to the day.
// Both are zero for an empty slice.
func Bounds(orders []Order) (first, last time.Time) {
	for i, o := range orders {
		d := day(o.OrderDate)
		if i == 0 || d.Before(first) {
			first = d
		}
		if i == 0 || d.After(last) {
			last = d
		}
	}
	return
}

// CountriesOf returns the distinct countries in orders, sorted.
func CountriesOf(orders []Order) []string {
	return distinct(orders, func(o Order) string { return o.Country })
}

// ProductLinesOf returns the distinct product lines in orders, sorted.
func ProductLinesOf(orders []Order) []string {
	return distinct(orders, func(o Order) string { return o.ProductLine })
}

func distinct(orders []Order, key func(Order) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, o := range orders {
		k := key(o)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
