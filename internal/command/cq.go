// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/filters"
	"github.com/gluectl/gluectl/internal/glue"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
)

var (
	cqDefaultAttrs      = []string{"name", "classification", "columns", "partition-keys", "updated-at"}
	cqCrawlDefaultAttrs = []string{".id:crawler", "state", "last-status", "last-start", "database"}
)

// tableQuery is the options of a catalog table listing.
type tableQuery struct {
	Database   string
	Expression string
}

// cqCommandAction is the action handler for the "cq" subcommand. It lists the
// tables of the catalog database. With --crawl it starts the crawler first
// and reports the crawler's state instead.
func cqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "cq"

	client, err := InitGlueClient(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("crawl") || cmd.Bool("status") {
		fn := func(ctx context.Context, cmd *cli.Command) ([]*glue.CrawlerStatus, error) {
			name := cmd.String("crawler")
			if cmd.Bool("crawl") {
				if err := client.StartCrawler(ctx, name); err != nil {
					return nil, err
				}
			}
			st, err := client.CrawlerState(ctx, name)
			if err != nil {
				return nil, err
			}
			return []*glue.CrawlerStatus{&st}, nil
		}
		return NewQueryActionRunner(
			"cq",
			reflect.TypeOf((*glue.CrawlerStatus)(nil)).Elem(),
			cqCrawlDefaultAttrs,
			fn,
		).Run(ctx, cmd)
	}

	fn := func(ctx context.Context, cmd *cli.Command) ([]*glue.Table, error) {
		q := tableQuery{Database: cmd.String("database")}
		if err := Augment(ctx, cmd, &q, cqServerSideFilterAugmenter); err != nil {
			return nil, err
		}
		tables, err := client.Tables(ctx, q.Database, q.Expression)
		if err != nil {
			return nil, err
		}
		return pointers(tables), nil
	}

	return NewQueryActionRunner(
		"cq",
		reflect.TypeOf((*glue.Table)(nil)).Elem(),
		cqDefaultAttrs,
		fn,
	).Run(ctx, cmd)
}

// cqServerSideFilterAugmenter pushes --filter _name=pattern to Glue as the
// table name expression.
func cqServerSideFilterAugmenter(_ context.Context, cmd *cli.Command, q *tableQuery) error {
	for k, v := range filters.ServerSide(cmd.String("filter")) {
		switch k {
		case "name":
			q.Expression = v
		default:
			log.Warnf("cq has no server-side filter _%s", k)
		}
	}
	log.Debugf("opts after augmentation: %+v", q)
	return nil
}

// cqCommandBuilder constructs the cli.Command for "cq".
func cqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewDatabaseFlag("cq", meta.Config.Source),
		NewNamedFlag("cq", meta.Config.Source, "crawler", "GLUECTL_CRAWLER", "Glue crawler that catalogs the gold path"),
		&cli.BoolFlag{
			Name:  "crawl",
			Usage: "start the crawler and show its state",
		},
		&cli.BoolFlag{
			Name:  "status",
			Usage: "show the crawler's state without starting it",
		},
	}
	flags = append(flags, NewAWSFlags("cq", meta.Config.Source)...)

	return (&QueryCommandBuilder{
		Name:      "cq",
		Usage:     "catalog query",
		UsageText: "gluectl cq [--crawl] [options]",
		Flags:     flags,
		Action:    cqCommandAction,
		Meta:      meta,
	}).Build()
}
