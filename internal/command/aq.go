// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
	"github.com/gluectl/gluectl/internal/source"
)

var errNoQuery = errors.New("no query, pass SQL or one of orders, countries, productlines")

// cannedQueries are the dashboard's three canned queries by name.
func cannedQueries(c source.Catalog) map[string]string {
	return map[string]string{
		"orders":       c.OrdersSQL(),
		"countries":    c.CountriesSQL(),
		"productlines": c.ProductLinesSQL(),
	}
}

// resolveQuery returns the SQL for args: a canned query name or the args
// joined as SQL text.
func resolveQuery(args []string, c source.Catalog) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", errNoQuery
	}
	if sql, ok := cannedQueries(c)[strings.ToLower(text)]; ok {
		return sql, nil
	}
	return text, nil
}

// aqCommandAction is the action handler for the "aq" subcommand. It runs one
// Athena query and emits its rows. Every column is an attribute, so the
// default attribute list is the result's column list.
func aqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "aq"

	if ShortCircuitTLDR(ctx, cmd, "aq") {
		return nil
	}

	sql, err := resolveQuery(cmd.Args().Slice(), catalogFromConfig())
	if err != nil {
		return err
	}
	log.Debugf("sql: %s", sql)

	runner, err := InitAthenaRunner(ctx, cmd)
	if err != nil {
		return err
	}
	rs, err := runner.Query(ctx, sql)
	if err != nil {
		return err
	}

	if cmd.Bool("schema") {
		w := cmd.Root().Writer
		for i, c := range rs.Columns {
			typ := ""
			if i < len(rs.Types) {
				typ = rs.Types[i]
			}
			fmt.Fprintf(w, "%s\t%s\n", c, typ)
		}
		return nil
	}

	payload, err := rs.Payload()
	if err != nil {
		return err
	}

	al := BuildAttrs(cmd, rs.Columns...)
	return EmitRaw(*bytes.NewBuffer(payload), al, cmd)
}

// aqCommandBuilder constructs the cli.Command for "aq".
func aqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewDatabaseFlag("aq", meta.Config.Source),
	}
	flags = append(flags, NewAthenaFlags("aq", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("aq", meta.Config.Source)...)

	return (&QueryCommandBuilder{
		Name:      "aq",
		Usage:     "athena query",
		UsageText: "gluectl aq <SQL|orders|countries|productlines> [options]",
		Flags:     flags,
		Action:    aqCommandAction,
		Meta:      meta,
	}).Build()
}
