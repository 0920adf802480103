// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source loads order rows and the country and product-line lists the
// dashboard needs. Rows can come from the Athena tables the crawler
// catalogued, straight from the MySQL database the Glue connection points
// at, or from a local CSV or JSON file.
package source
