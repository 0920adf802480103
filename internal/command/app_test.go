// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config and cache at temp locations so the developer's own
// setup never leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gluectl.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("cache:\n  clean: 0\n"), 0o600))
	t.Setenv("GLUECTL_CFG_FILE", cfg)
	t.Setenv("GLUECTL_CACHE_DIR", filepath.Join(dir, "cache"))
	for _, k := range []string{
		"GLUECTL_DATABASE", "GLUECTL_SOURCE", "GLUECTL_DSN", "GLUECTL_JOB",
		"GLUECTL_CRAWLER", "GLUECTL_GOLD_PATH", "GLUECTL_ORG", "GLUECTL_WORKSPACE",
		"AWS_PROFILE", "TF_CLOUD_ORGANIZATION", "TF_WORKSPACE",
	} {
		unsetenv(t, k)
	}
}

// unsetenv removes k for the duration of the test.
func unsetenv(t *testing.T, k string) {
	t.Helper()
	t.Setenv(k, "")
	require.NoError(t, os.Unsetenv(k))
}

// runApp builds and runs the app for args (without the binary name) and
// returns what it wrote.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)

	full := append([]string{"gluectl"}, args...)
	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = io.Discard
	err = app.Run(context.Background(), full)
	return buf.String(), err
}

// decodeRows parses -o json output.
func decodeRows(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func TestInitApp_Commands(t *testing.T) {
	isolate(t)
	app, err := InitApp(context.Background(), []string{"gluectl"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"aq", "cq", "di", "dq", "eq", "iq", "oq", "rq", "completion"}, names)
	assert.Equal(t, "gluectl", app.Name)
}

func TestInitApp_FlagsSorted(t *testing.T) {
	isolate(t)
	app, err := InitApp(context.Background(), []string{"gluectl", "dq"})
	require.NoError(t, err)

	for _, c := range app.Commands {
		for i := 1; i < len(c.Flags); i++ {
			assert.LessOrEqual(t, c.Flags[i-1].Names()[0], c.Flags[i].Names()[0], c.Name)
		}
	}
}

func TestInitApp_RootDir(t *testing.T) {
	isolate(t)
	sd, err := os.Getwd()
	require.NoError(t, err)
	stack, err := filepath.Abs("../infra/testdata/stack")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"iq with dir", []string{"gluectl", "iq", "../infra/testdata/stack"}, stack},
		{"iq with .tf file", []string{"gluectl", "iq", "../infra/testdata/stack/main.tf"}, stack},
		{"iq without dir", []string{"gluectl", "iq", "--validate"}, sd},
		{"dq ignores args", []string{"gluectl", "dq", "whatever"}, sd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := InitApp(context.Background(), tt.args)
			require.NoError(t, err)
			iq := app.Command(tt.args[1])
			require.NotNil(t, iq)
			assert.Equal(t, tt.want, GetMeta(iq).RootDir)
		})
	}
}

func TestInitApp_BadRootDir(t *testing.T) {
	isolate(t)
	_, err := InitApp(context.Background(), []string{"gluectl", "iq", "/no/such/dir"})
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	out, err := runApp(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _gluectl gluectl")

	out, err = runApp(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef gluectl")

	t.Setenv("SHELL", "/bin/fish")
	_, err = runApp(t, "completion")
	assert.Error(t, err)
}
