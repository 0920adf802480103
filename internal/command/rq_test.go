// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/tfc"
)

// filterCommand returns a parsed command carrying only --filter.
func filterCommand(t *testing.T, spec string) *cli.Command {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  []cli.Flag{&cli.StringFlag{Name: "filter"}},
		Action: func(context.Context, *cli.Command) error { return nil },
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--filter", spec}))
	return cmd
}

func TestRQServerSideFilterAugmenter(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want string
	}{
		{"none", "", ""},
		{"one status", "_status=applied", "applied"},
		{"several statuses", "_status=planned|errored", "planned,errored"},
		{"client-side only", "status=applied", ""},
		{"unknown key ignored", "_source=tfe-api", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tfc.RunsOptions{}
			err := rqServerSideFilterAugmenter(context.Background(), filterCommand(t, tt.spec), &opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Status)
		})
	}
}

func TestCQServerSideFilterAugmenter(t *testing.T) {
	q := tableQuery{Database: "sales_gold"}
	require.NoError(t, cqServerSideFilterAugmenter(context.Background(), filterCommand(t, "_name=prod*,columns>2"), &q))
	assert.Equal(t, "prod*", q.Expression)
	assert.Equal(t, "sales_gold", q.Database)
}

func TestAugment_StopsOnError(t *testing.T) {
	calls := 0
	bump := func(context.Context, *cli.Command, *tableQuery) error {
		calls++
		return nil
	}
	fail := func(context.Context, *cli.Command, *tableQuery) error {
		return assert.AnError
	}

	err := Augment(context.Background(), nil, &tableQuery{}, bump, nil, fail, bump)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestRQ_NoOrg(t *testing.T) {
	orig := newTFC
	t.Cleanup(func() { newTFC = orig })
	newTFC = func(host, _ string) (*tfc.Client, error) { return &tfc.Client{Host: host}, nil }

	_, err := runApp(t, "rq", "--workspace", "glue-stack")
	assert.ErrorIs(t, err, tfc.ErrOrganizationNotSet)
}
