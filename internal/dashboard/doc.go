// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package dashboard is the interactive sales panel behind `gluectl di`.
//
// The panel holds two date inputs, a country and a product line dropdown and
// a top-N slider. Every change reruns the cascade and redraws the bar chart.
package dashboard
