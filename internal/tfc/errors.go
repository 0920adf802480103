// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tfc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-tfe"
)

// ErrorContext carries input context for improving API error messages.
type ErrorContext struct {
	Host      string
	Org       string
	Workspace string
	Operation string // e.g., "list runs", "read workspace"
}

// FriendlyTFE wraps a TFE error with a contextual message while keeping the
// original reachable through errors.Is/As.
func FriendlyTFE(err error, ctx ErrorContext) error {
	if err == nil {
		return nil
	}

	host := nonEmpty(ctx.Host, "<unknown>")
	op := nonEmpty(ctx.Operation, "request")

	switch {
	case errors.Is(err, tfe.ErrUnauthorized):
		return fmt.Errorf("%s on %s: authentication failed (401). Set %s or TF_TOKEN: %w",
			op, host, hostEnvKey(ctx.Host), err)

	case errors.Is(err, tfe.ErrResourceNotFound):
		if ctx.Workspace != "" {
			return fmt.Errorf("%s: workspace %q not found in organization %q on %s (404): %w",
				op, ctx.Workspace, nonEmpty(ctx.Org, "<unknown>"), host, err)
		}
		return fmt.Errorf("%s: organization %q not found on %s (404): %w",
			op, nonEmpty(ctx.Org, "<unknown>"), host, err)
	}

	return fmt.Errorf("%s on %s for org=%q workspace=%q: %w",
		op, host, ctx.Org, ctx.Workspace, err)
}

// hostEnvKey is the terraform CLI's per-host token variable,
// e.g. app.terraform.io -> TF_TOKEN_app_terraform_io.
func hostEnvKey(host string) string {
	if host == "" {
		return ""
	}
	return "TF_TOKEN_" + strings.ReplaceAll(host, ".", "_")
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
