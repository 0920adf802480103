// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ renders the difference between two JSON documents, used to
// show drift between the declared ETL job and the one Glue is running.
package differ
