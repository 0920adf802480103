// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output is the rendering pipeline shared by the query commands:
// filter, sort, transform, then emit a table, JSON, YAML or the raw document.
package output
