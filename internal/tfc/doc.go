// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tfc reads Terraform Cloud runs of the workspace that provisions the
// pipeline. Tokens resolve the way the terraform CLI resolves them.
package tfc
