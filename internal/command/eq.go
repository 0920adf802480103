// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/filters"
	"github.com/gluectl/gluectl/internal/glue"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
)

// eqDefaultAttrs specifies the default attributes displayed for job runs in
// the "eq" command output.
var eqDefaultAttrs = []string{".id", "state", "started-on", "execution-time", "workers", "worker-type"}

// eqCommandAction is the action handler for the "eq" subcommand. It lists
// runs of the ETL job, newest first. With --run it starts a run first, with
// any --arg overrides, and the listing then includes it.
func eqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "eq"

	client, err := InitGlueClient(ctx, cmd)
	if err != nil {
		return err
	}

	fn := func(ctx context.Context, cmd *cli.Command) ([]*glue.JobRun, error) {
		job := cmd.String("job")

		if cmd.Bool("run") {
			args, err := jobArguments(cmd.StringSlice("arg"))
			if err != nil {
				return nil, err
			}
			if _, err := client.StartJobRun(ctx, job, args); err != nil {
				return nil, err
			}
		}

		opts := glue.JobRunsOptions{Limit: int(cmd.Int("limit"))}
		if err := Augment(ctx, cmd, &opts, eqServerSideFilterAugmenter); err != nil {
			return nil, err
		}
		runs, err := client.JobRuns(ctx, job, opts)
		if err != nil {
			return nil, err
		}
		return pointers(runs), nil
	}

	return NewQueryActionRunner(
		"eq",
		reflect.TypeOf((*glue.JobRun)(nil)).Elem(),
		eqDefaultAttrs,
		fn,
	).Run(ctx, cmd)
}

// jobArguments parses --arg key=value overrides into Glue job arguments,
// whose names always start with --.
func jobArguments(list []string) (map[string]string, error) {
	kv, err := keyValues("arg", list)
	if err != nil {
		return nil, err
	}
	args := make(map[string]string, len(kv))
	for k, v := range kv {
		args["--"+strings.TrimLeft(k, "-")] = v
	}
	return args, nil
}

// eqServerSideFilterAugmenter pushes --filter _state=STATE into the job run
// listing so --limit counts only runs in that state.
func eqServerSideFilterAugmenter(_ context.Context, cmd *cli.Command, opts *glue.JobRunsOptions) error {
	for k, v := range filters.ServerSide(cmd.String("filter")) {
		switch k {
		case "state":
			opts.State = v
		default:
			log.Warnf("eq has no server-side filter _%s", k)
		}
	}
	log.Debugf("opts after augmentation: %+v", opts)
	return nil
}

// eqCommandBuilder constructs the cli.Command for "eq".
func eqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewNamedFlag("eq", meta.Config.Source, "job", "GLUECTL_JOB", "Glue ETL job"),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "show at most this many runs, 0 for all",
			Value: 20,
		},
		&cli.BoolFlag{
			Name:  "run",
			Usage: "start a job run before listing",
		},
		&cli.StringSliceFlag{
			Name:  "arg",
			Usage: "job argument override for --run, as key=value (repeatable)",
		},
	}
	flags = append(flags, NewAWSFlags("eq", meta.Config.Source)...)

	return (&QueryCommandBuilder{
		Name:      "eq",
		Usage:     "ETL job run query",
		UsageText: "gluectl eq [--run [--arg key=value]...] [options]",
		Flags:     flags,
		Action:    eqCommandAction,
		Meta:      meta,
	}).Build()
}
