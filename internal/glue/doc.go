// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package glue reads the Glue Data Catalog, the ETL job and its runs, and
// triggers job runs and crawls. Results are flattened into jsonapi-tagged
// structs for the output pipeline.
package glue
