// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows query results with --filter expressions.
//
// A filter is key, operator and target. Filters are comma separated, or
// separated by GLUECTL_FILTER_DELIM when targets contain commas.
//
// Operators, each negatable with a leading '!':
//
//   - = : exact match, numeric equality for numbers
//   - ~ : case-insensitive match
//   - ^ : prefix
//   - < : less than, numeric for numbers
//   - > : greater than, numeric for numbers
//   - @ : substring, or membership for lists and maps
//   - / : regular expression
//
// Examples:
//
//   - "country=USA"
//   - "product-code^S18"
//   - "sales>1000"
//   - "location!@raw"
//
// Keys match the OutputKey of an attr (see package attrs). Keys prefixed with
// '_' are pushed to the API by commands that support it (eq state, rq
// status) and skipped here.
package filters
