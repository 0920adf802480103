// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"
	"strings"

	"github.com/hashicorp/go-tfe"
	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/filters"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
	"github.com/gluectl/gluectl/internal/tfc"
)

// rqDefaultAttrs specifies the default attributes displayed for runs in
// the "rq" command output.
var rqDefaultAttrs = []string{".id", "created-at", "status", "message::40"}

// rqCommandAction is the action handler for the "rq" subcommand. It lists the
// Terraform Cloud runs of the workspace that provisions the Glue stack.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "rq"

	fn := func(ctx context.Context, cmd *cli.Command) ([]*tfe.Run, error) {
		client, err := InitTFC(cmd)
		if err != nil {
			return nil, err
		}

		opts := tfc.RunsOptions{Limit: int(cmd.Int("limit"))}
		if err := Augment(ctx, cmd, &opts, rqServerSideFilterAugmenter); err != nil {
			return nil, err
		}
		return client.Runs(ctx, cmd.String("org"), cmd.String("workspace"), opts)
	}

	return NewQueryActionRunner(
		"rq",
		reflect.TypeOf((*tfe.Run)(nil)).Elem(),
		rqDefaultAttrs,
		fn,
	).Run(ctx, cmd)
}

// rqServerSideFilterAugmenter pushes --filter _status=planned into the run
// listing. Several statuses may be given separated by |.
func rqServerSideFilterAugmenter(_ context.Context, cmd *cli.Command, opts *tfc.RunsOptions) error {
	for k, v := range filters.ServerSide(cmd.String("filter")) {
		switch k {
		case "status":
			opts.Status = strings.ReplaceAll(v, "|", ",")
		default:
			log.Warnf("rq has no server-side filter _%s", k)
		}
	}
	log.Debugf("opts after augmentation: %+v", opts)
	return nil
}

// rqCommandBuilder constructs the cli.Command for "rq", configuring metadata,
// flags, and the associated action/validator.
func rqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "rq",
		Usage:     "provisioning run query",
		UsageText: "gluectl rq [options]",
		Flags: []cli.Flag{
			NewHostFlag("rq", meta.Config.Source),
			NewOrgFlag("rq", meta.Config.Source),
			NewWorkspaceFlag("rq", meta.Config.Source),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "show at most this many runs",
				Value: 20,
			},
		},
		Action: rqCommandAction,
		Meta:   meta,
	}).Build()
}
