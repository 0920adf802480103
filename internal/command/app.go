// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/meta"
	"github.com/gluectl/gluectl/internal/util"
)

// rootDirCommands take an optional RootDir as the argument right after the
// command name.
var rootDirCommands = map[string]bool{"iq": true}

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the gluectl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	config.Config.Namespace = ns
	cfg, _ := config.Load() //nolint:errcheck
	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	// A non-flag argument right after iq is the Terraform directory.
	if rootDirCommands[ns] && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		wd, err := util.ParseRootDir(args[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse rootDir (%s): %w", args[2], err)
		}
		m.RootDir = wd
	} else {
		m.RootDir = sd
	}

	app := &cli.Command{
		Name:  "gluectl",
		Usage: "Glue Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "gluectl version info",
				HideDefault: true,
			},
		},
		// --arg and --var values may contain commas.
		DisableSliceFlagSeparator: true,
	}

	app.Commands = append(app.Commands,
		aqCommandBuilder(m),
		cqCommandBuilder(m),
		diCommandBuilder(m),
		dqCommandBuilder(m),
		eqCommandBuilder(m),
		iqCommandBuilder(m),
		oqCommandBuilder(m),
		rqCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
