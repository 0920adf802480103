// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package infra reads the Terraform fragment that provisions the Glue side of
// the pipeline: a catalog database, a JDBC connection, a crawler over the gold
// path and the ETL job.
//
// Load parses every *.tf file in a directory, resolves variables, locals and
// references between resources with go-cty, and returns one Declaration per
// resource block. Expressions that cannot be resolved offline (computed
// attributes, variables with no default) keep their source text.
//
// NewStack gives a typed view over the four Glue resources. Validate checks
// that they are wired to each other the way the ETL job expects, and JobSpec
// renders the declared job in the shape glue.Client.Job returns for the live
// one so the two can be diffed.
package infra
