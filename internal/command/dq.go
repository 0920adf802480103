// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/chart"
	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
	"github.com/gluectl/gluectl/internal/sales"
	"github.com/gluectl/gluectl/internal/source"
)

// dqDefaultAttrs specifies the default attributes displayed for the ranked
// products in the "dq" command output.
var dqDefaultAttrs = []string{"rank", "product-code", "sales", "orders", "share"}

// dqTextAttrs replaces defaults for text output only so json and yaml keep
// sales numeric.
var dqTextAttrs = map[string]string{"sales": "sales::$"}

// dqAttrs returns the default attributes for the requested output format.
func dqAttrs(format string) []string {
	out := make([]string, len(dqDefaultAttrs))
	for i, a := range dqDefaultAttrs {
		out[i] = a
		if t, ok := dqTextAttrs[a]; ok && format == "text" {
			out[i] = t
		}
	}
	return out
}

// dqCommandAction is the action handler for the "dq" subcommand. It loads the
// orders once, runs the filter cascade for the selection flags and emits the
// ranked products, or a bar chart with --chart.
func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "dq"

	if ShortCircuitTLDR(ctx, cmd, "dq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(sales.ProductSales{})) {
		return nil
	}

	sel, err := selectionFromCommand(cmd)
	if err != nil {
		return err
	}
	log.Debugf("selection: %+v", sel)

	src, closeSrc, err := InitSource(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeSrc()

	orders, err := src.Orders(ctx)
	if err != nil {
		return err
	}
	warnUnknownChoices(ctx, src, sel)

	result, err := sales.Aggregate(orders, sel)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if len(result.Rows) == 0 && (cmd.Bool("chart") || cmd.String("output") == "text") {
		_, err := fmt.Fprintln(w, sales.NoSalesMessage(sel))
		return err
	}

	if cmd.Bool("chart") {
		_, err := fmt.Fprintln(w, chart.Bars(result.Rows, chart.Width(), cmd.Bool("color")))
		return err
	}

	if cmd.Bool("titles") {
		cmd.Metadata["footer"] = fmt.Sprintf("%s total from %d orders",
			chart.Money(result.Total.InexactFloat64()), result.Matched)
	}

	al := BuildAttrs(cmd, dqAttrs(cmd.String("output"))...)
	return EmitJSONAPISlice(pointers(result.Rows), al, cmd)
}

// selectionFromCommand reads the widget flags into a validated Selection.
func selectionFromCommand(cmd *cli.Command) (sales.Selection, error) {
	start, err := sales.ParseDate(cmd.String("start"))
	if err != nil {
		return sales.Selection{}, fmt.Errorf("--start: %w", err)
	}
	end, err := sales.ParseDate(cmd.String("end"))
	if err != nil {
		return sales.Selection{}, fmt.Errorf("--end: %w", err)
	}

	sel := sales.Selection{
		Start:       start,
		End:         end,
		Country:     cmd.String("country"),
		ProductLine: cmd.String("productline"),
		Top:         int(cmd.Int("top")),
	}
	if sel.Country == "" {
		sel.Country = sales.All
	}
	if sel.ProductLine == "" {
		sel.ProductLine = sales.All
	}
	return sel, sel.Validate()
}

// warnUnknownChoices warns when a country or product line is not one the
// source knows, which is the usual cause of an empty result.
func warnUnknownChoices(ctx context.Context, src source.Source, sel sales.Selection) {
	if sel.Country != sales.All {
		if known, err := src.Countries(ctx); err == nil && !slices.Contains(known, sel.Country) {
			log.Warnf("unknown country %q", sel.Country)
		}
	}
	if sel.ProductLine != sales.All {
		if known, err := src.ProductLines(ctx); err == nil && !slices.Contains(known, sel.ProductLine) {
			log.Warnf("unknown product line %q", sel.ProductLine)
		}
	}
}

// dqCommandBuilder constructs the cli.Command for "dq", configuring metadata,
// flags, and the associated action/validator.
func dqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewDatabaseFlag("dq", meta.Config.Source),
		&cli.BoolFlag{
			Name:  "chart",
			Usage: "plot the result as a bar chart",
		},
	}
	flags = append(flags, NewSelectionFlags("dq", meta.Config.Source)...)
	flags = append(flags, NewSourceFlags("dq", meta.Config.Source)...)
	flags = append(flags, NewAthenaFlags("dq", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("dq", meta.Config.Source)...)

	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "dashboard query",
		UsageText: "gluectl dq [--start date] [--end date] [--country c] [--productline p] [--top n] [options]",
		Flags:     flags,
		Action:    dqCommandAction,
		Meta:      meta,
	}).Build()
}
