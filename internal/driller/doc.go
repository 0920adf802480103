// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller walks dotted attr paths such as
// attributes.command.script_location or attributes.columns[1] through a JSON
// document. A single element array is stepped through without an index.
package driller
