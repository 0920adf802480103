// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS SDK v2 config loading, client constructors for the
// services gluectl talks to (S3, Athena, Glue) and small helpers shared by
// them.
package aws
