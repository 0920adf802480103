// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package sales holds the order row model and the dashboard's filter cascade:
// date window, product line, country, group by product code, rank and cut to
// the top N. Money is carried as shopspring/decimal so sums are exact; the
// float fields on ProductSales exist only for rendering.
package sales
