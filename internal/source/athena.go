// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"

	"github.com/gluectl/gluectl/internal/sales"
)

// Catalog names the star-schema tables the crawler created.
type Catalog struct {
	Orders    string
	Products  string
	Locations string
}

// DefaultCatalog is the layout the ETL job writes.
var DefaultCatalog = Catalog{
	Orders:    "fact_orders",
	Products:  "dim_products",
	Locations: "dim_locations",
}

func (c Catalog) withDefaults() Catalog {
	if c.Orders == "" {
		c.Orders = DefaultCatalog.Orders
	}
	if c.Products == "" {
		c.Products = DefaultCatalog.Products
	}
	if c.Locations == "" {
		c.Locations = DefaultCatalog.Locations
	}
	return c
}

// OrdersSQL joins the fact table to both dimensions.
func (c Catalog) OrdersSQL() string {
	c = c.withDefaults()
	return fmt.Sprintf(`SELECT o.orderDate AS order_date, p.productLine AS product_line, o.productCode AS product_code, l.country AS country, o.amount AS amount
FROM %s o
JOIN %s p ON o.productCode = p.productCode
JOIN %s l ON o.postalCode = l.postalCode`, c.Orders, c.Products, c.Locations)
}

// CountriesSQL lists distinct countries.
func (c Catalog) CountriesSQL() string {
	c = c.withDefaults()
	return fmt.Sprintf("SELECT DISTINCT country FROM %s ORDER BY country", c.Locations)
}

// ProductLinesSQL lists distinct product lines.
func (c Catalog) ProductLinesSQL() string {
	c = c.withDefaults()
	return fmt.Sprintf("SELECT DISTINCT productLine FROM %s ORDER BY productLine", c.Products)
}

// AthenaSource reads the catalogued gold tables through Athena.
type AthenaSource struct {
	Runner  Querier
	Catalog Catalog
}

func (s *AthenaSource) Orders(ctx context.Context) ([]sales.Order, error) {
	rs, err := s.Runner.Query(ctx, s.Catalog.OrdersSQL())
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return decodeRows(rs.Maps())
}

func (s *AthenaSource) Countries(ctx context.Context) ([]string, error) {
	return s.column(ctx, s.Catalog.CountriesSQL(), "countries")
}

func (s *AthenaSource) ProductLines(ctx context.Context) ([]string, error) {
	return s.column(ctx, s.Catalog.ProductLinesSQL(), "product lines")
}

func (s *AthenaSource) column(ctx context.Context, sql, what string) ([]string, error) {
	rs, err := s.Runner.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	out := make([]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if len(row) > 0 && row[0] != "" {
			out = append(out, row[0])
		}
	}
	return out, nil
}
