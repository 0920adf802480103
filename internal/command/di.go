// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/dashboard"
	"github.com/gluectl/gluectl/internal/meta"
	"github.com/gluectl/gluectl/internal/sales"
)

var errNotTerminal = errors.New("di needs a terminal, use dq for scripted output")

// diCommandAction is the action handler for the "di" subcommand. It loads the
// orders once and hands them to the interactive panel, seeded from the
// selection flags. Dates left empty default to the data's first and last
// order.
func diCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "di"

	if ShortCircuitTLDR(ctx, cmd, "di") {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}

	sel, err := selectionFromCommand(cmd)
	if err != nil {
		return err
	}

	src, closeSrc, err := InitSource(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeSrc()

	orders, err := src.Orders(ctx)
	if err != nil {
		return err
	}

	first, last := sales.Bounds(orders)
	if sel.Start.IsZero() {
		sel.Start = first
	}
	if sel.End.IsZero() {
		sel.End = last
	}

	return dashboard.Run(orders, sel, cmd.Bool("color"))
}

// diCommandBuilder constructs the cli.Command for "di". It shares the source
// and selection flags with dq but none of the output flags.
func diCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		tldrFlag,
		NewDatabaseFlag("di", meta.Config.Source),
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored bars",
		},
	}
	flags = append(flags, NewSelectionFlags("di", meta.Config.Source)...)
	flags = append(flags, NewSourceFlags("di", meta.Config.Source)...)
	flags = append(flags, NewAthenaFlags("di", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("di", meta.Config.Source)...)

	return &cli.Command{
		Name:      "di",
		Usage:     "dashboard interactive",
		UsageText: "gluectl di [--start date] [--end date] [--country c] [--productline p] [--top n] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: diCommandAction,
	}
}
