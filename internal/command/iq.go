// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/differ"
	"github.com/gluectl/gluectl/internal/infra"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
)

var (
	errValidation = errors.New("the Glue stack has wiring errors")
	errDrift      = errors.New("the live job differs from its declaration")
)

var (
	iqDefaultAttrs         = []string{".id:address", "file", "line", "unresolved"}
	iqValidateDefaultAttrs = []string{"severity", "address", "message"}
)

// declaration is a resource block as the output pipeline sees it. Args holds
// the evaluated, redacted attributes, so --attrs args.glue_version works.
type declaration struct {
	ID         string         `jsonapi:"primary,resources"`
	Type       string         `jsonapi:"attr,type"`
	Name       string         `jsonapi:"attr,name"`
	File       string         `jsonapi:"attr,file"`
	Line       int            `jsonapi:"attr,line"`
	Unresolved int            `jsonapi:"attr,unresolved"`
	Args       map[string]any `jsonapi:"attr,args"`
}

func declarationsOf(decls []infra.Declaration) []*declaration {
	out := make([]*declaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, &declaration{
			ID:         d.Address,
			Type:       d.Type,
			Name:       d.Name,
			File:       d.File,
			Line:       d.Line,
			Unresolved: len(d.Unresolved),
			Args:       infra.Redact(d.Attributes),
		})
	}
	return out
}

// iqRootDir is the Terraform directory: the parsed RootDir argument, else the
// starting directory.
func iqRootDir(cmd *cli.Command) string {
	m := GetMeta(cmd)
	if m.RootDir != "" {
		return m.RootDir
	}
	return m.StartingDir
}

func iqLoad(cmd *cli.Command) ([]infra.Declaration, error) {
	vars, err := keyValues("var", cmd.StringSlice("var"))
	if err != nil {
		return nil, err
	}
	return infra.Load(iqRootDir(cmd), vars)
}

// iqCommandAction is the action handler for the "iq" subcommand. It lists the
// resources declared in a Terraform directory. --validate checks the Glue
// stack's wiring offline and --drift compares the declared job with the live
// one.
func iqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "iq"

	switch {
	case cmd.Bool("validate"):
		return iqValidate(ctx, cmd)
	case cmd.Bool("drift"):
		return iqDrift(ctx, cmd)
	}

	fn := func(ctx context.Context, cmd *cli.Command) ([]*declaration, error) {
		decls, err := iqLoad(cmd)
		if err != nil {
			return nil, err
		}
		return declarationsOf(decls), nil
	}

	return NewQueryActionRunner(
		"iq",
		reflect.TypeOf((*declaration)(nil)).Elem(),
		iqDefaultAttrs,
		fn,
	).Run(ctx, cmd)
}

func iqValidate(ctx context.Context, cmd *cli.Command) error {
	var findings []infra.Finding

	fn := func(ctx context.Context, cmd *cli.Command) ([]*infra.Finding, error) {
		decls, err := iqLoad(cmd)
		if err != nil {
			return nil, err
		}
		stack, err := infra.NewStack(decls)
		if err != nil {
			return nil, err
		}
		findings = stack.Validate()
		log.Debugf("%d findings", len(findings))
		return pointers(findings), nil
	}

	err := NewQueryActionRunner(
		"iq",
		reflect.TypeOf((*infra.Finding)(nil)).Elem(),
		iqValidateDefaultAttrs,
		fn,
	).Run(ctx, cmd)
	if err != nil {
		return err
	}
	if infra.HasErrors(findings) {
		return errValidation
	}
	return nil
}

func iqDrift(ctx context.Context, cmd *cli.Command) error {
	decls, err := iqLoad(cmd)
	if err != nil {
		return err
	}
	stack, err := infra.NewStack(decls)
	if err != nil {
		return err
	}
	declared, err := stack.JobSpec()
	if err != nil {
		return err
	}

	client, err := InitGlueClient(ctx, cmd)
	if err != nil {
		return err
	}
	live, err := client.Job(ctx, declared.Name)
	if err != nil {
		return fmt.Errorf("failed to read job %s: %w", declared.Name, err)
	}

	left, err := json.Marshal(declared)
	if err != nil {
		return err
	}
	right, err := json.Marshal(live)
	if err != nil {
		return err
	}

	ignore := cmd.StringSlice("ignore")
	if len(ignore) == 0 {
		ignore, _ = config.GetStringSlice("ignore", nil)
	}

	changed, err := differ.Diff(cmd.Root().Writer, left, right, differ.Options{
		Ignore: ignore,
		Color:  cmd.Bool("color"),
	})
	if err != nil {
		return err
	}
	if changed {
		return errDrift
	}
	return nil
}

// iqCommandBuilder constructs the cli.Command for "iq".
func iqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "validate",
			Usage: "check the Glue stack's wiring",
		},
		&cli.BoolFlag{
			Name:  "drift",
			Usage: "diff the declared ETL job against the live one",
		},
		&cli.StringSliceFlag{
			Name:  "var",
			Usage: "variable override, as name=value (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "ignore",
			Usage: "dotted job keys to leave out of --drift. Defaults to the iq.ignore config key",
		},
	}
	flags = append(flags, NewAWSFlags("iq", meta.Config.Source)...)

	return (&QueryCommandBuilder{
		Name:      "iq",
		Usage:     "infra query",
		UsageText: "gluectl iq [RootDir] [--validate|--drift] [options]",
		Flags:     flags,
		Action:    iqCommandAction,
		Meta:      meta,
	}).Build()
}
