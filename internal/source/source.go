// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gluectl/gluectl/internal/athena"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/sales"
)

// Source kinds accepted by New.
const (
	KindAthena = "athena"
	KindMySQL  = "mysql"
	KindFile   = "file"
)

// Source supplies the three datasets behind the dashboard.
type Source interface {
	Orders(ctx context.Context) ([]sales.Order, error)
	Countries(ctx context.Context) ([]string, error)
	ProductLines(ctx context.Context) ([]string, error)
}

// Querier runs SQL and returns a result set. *athena.Runner satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string) (*athena.ResultSet, error)
}

// Options carries what each kind needs. Only the fields of the selected kind
// are read.
type Options struct {
	Athena  Querier
	Catalog Catalog
	DSN     string
	Path    string
}

// New returns the Source for kind. An empty kind means athena. The mysql
// source opens and pings its connection here; callers should Close it.
func New(ctx context.Context, kind string, opts Options) (Source, error) {
	log.Debugf("source kind: %q", kind)
	switch strings.ToLower(kind) {
	case "", KindAthena:
		if opts.Athena == nil {
			return nil, fmt.Errorf("athena source needs a query runner")
		}
		return &AthenaSource{Runner: opts.Athena, Catalog: opts.Catalog}, nil
	case KindMySQL:
		s, err := OpenMySQL(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("file source needs a path")
		}
		return &FileSource{Path: opts.Path}, nil
	default:
		return nil, fmt.Errorf("unknown source %q, want one of %s, %s, %s", kind, KindAthena, KindMySQL, KindFile)
	}
}

// columns maps normalized column names onto Order fields.
var columns = map[string]string{
	"orderdate":   "date",
	"productline": "line",
	"productcode": "code",
	"country":     "country",
	"amount":      "amount",
	"orderamount": "amount",
	"sales":       "amount",
}

func normalize(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(name)))
}

// decodeRow turns one name-keyed record into an Order. n is the 1-based row
// number used in errors.
func decodeRow(n int, rec map[string]string) (sales.Order, error) {
	var o sales.Order
	seen := map[string]bool{}

	for name, value := range rec {
		field, ok := columns[normalize(name)]
		if !ok {
			continue
		}
		seen[field] = true
		value = strings.TrimSpace(value)

		switch field {
		case "date":
			d, err := sales.ParseDate(value)
			if err != nil {
				return o, fmt.Errorf("row %d: column %s: %w", n, name, err)
			}
			o.OrderDate = d
		case "line":
			o.ProductLine = value
		case "code":
			o.ProductCode = value
		case "country":
			o.Country = value
		case "amount":
			if value == "" {
				o.Amount = decimal.Zero
				continue
			}
			a, err := decimal.NewFromString(value)
			if err != nil {
				return o, fmt.Errorf("row %d: column %s: invalid amount %q: %w", n, name, value, err)
			}
			o.Amount = a
		}
	}

	for _, f := range []string{"date", "code", "amount"} {
		if !seen[f] {
			return o, fmt.Errorf("row %d: missing %s column", n, f)
		}
	}
	return o, nil
}

func decodeRows(recs []map[string]string) ([]sales.Order, error) {
	orders := make([]sales.Order, 0, len(recs))
	for i, rec := range recs {
		o, err := decodeRow(i+1, rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
