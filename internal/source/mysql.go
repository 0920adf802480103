// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/sales"
)

const (
	mysqlConnTimeout     = 5 * time.Second
	mysqlMaxOpenConns    = 4
	mysqlMaxIdleConns    = 2
	mysqlConnMaxLifetime = 5 * time.Minute
)

// ErrNoDSN is returned when the mysql source has nothing to connect to.
var ErrNoDSN = errors.New("mysql source needs a DSN, use --dsn or declare the Glue connection")

const (
	mysqlOrdersSQL = `SELECT o.orderDate, p.productLine, d.productCode, c.country, d.quantityOrdered * d.priceEach
FROM orders o
JOIN orderdetails d ON d.orderNumber = o.orderNumber
JOIN products p ON p.productCode = d.productCode
JOIN customers c ON c.customerNumber = o.customerNumber`
	mysqlCountriesSQL    = "SELECT DISTINCT country FROM customers ORDER BY country"
	mysqlProductLinesSQL = "SELECT DISTINCT productLine FROM products ORDER BY productLine"
)

// MySQLSource reads the classicmodels OLTP schema the ETL job extracts from.
type MySQLSource struct {
	db *sql.DB
}

// OpenMySQL opens a pooled connection and pings it. parseTime is forced on
// so DATE columns scan into time.Time.
func OpenMySQL(ctx context.Context, dsn string) (*MySQLSource, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Timeout == 0 {
		cfg.Timeout = mysqlConnTimeout
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(mysqlMaxOpenConns)
	db.SetMaxIdleConns(mysqlMaxIdleConns)
	db.SetConnMaxLifetime(mysqlConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, mysqlConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql %s/%s: %w", cfg.Addr, cfg.DBName, err)
	}
	log.Debugf("mysql connected: addr=%s db=%s", cfg.Addr, cfg.DBName)

	return &MySQLSource{db: db}, nil
}

// Close releases the pool.
func (s *MySQLSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *MySQLSource) Orders(ctx context.Context) ([]sales.Order, error) {
	rows, err := s.db.QueryContext(ctx, mysqlOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *MySQLSource) Countries(ctx context.Context) ([]string, error) {
	return s.column(ctx, mysqlCountriesSQL)
}

func (s *MySQLSource) ProductLines(ctx context.Context) ([]string, error) {
	return s.column(ctx, mysqlProductLinesSQL)
}

func (s *MySQLSource) column(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if v.Valid && v.String != "" {
			out = append(out, v.String)
		}
	}
	return out, rows.Err()
}

// rowScanner is the part of *sql.Rows scanOrders uses.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanOrders(rows rowScanner) ([]sales.Order, error) {
	var orders []sales.Order
	for n := 1; rows.Next(); n++ {
		var (
			o       sales.Order
			line    sql.NullString
			country sql.NullString
			amount  decimal.NullDecimal
		)
		if err := rows.Scan(&o.OrderDate, &line, &o.ProductCode, &country, &amount); err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		o.ProductLine = line.String
		o.Country = country.String
		o.Amount = amount.Decimal
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}
