// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strings"

	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/attrs"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
	"github.com/gluectl/gluectl/internal/output"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec. A malformed --attrs value
// is logged and skipped.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			log.Errorf("default attrs %q: %v", d, err)
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			log.Warnf("--attrs: %v", err)
		}
	}
	_ = al.SetGlobalTransformSpec()
	return
}

// DumpSchemaIfRequested writes the schema for the provided type to stdout
// when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema("", t, cmd.Root().Writer)
		return true
	}
	return false
}

// PostProcessor reworks the projected rows of text output before the table
// is drawn.
type PostProcessor func([]map[string]interface{}) error

// EmitJSONAPISlice marshals a slice of struct pointers as JSON:API and
// passes it to the common output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command, post ...PostProcessor) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return EmitRaw(raw, al, cmd, post...)
}

// EmitRaw passes an already rendered JSON:API document to the common output
// routine.
func EmitRaw(raw bytes.Buffer, al attrs.AttrList, cmd *cli.Command, post ...PostProcessor) error {
	var postProcess func([]map[string]interface{}) error
	if len(post) > 0 && post[0] != nil {
		postProcess = post[0]
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), "data", cmd.Root().Writer, postProcess)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr gluectl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "gluectl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// pointers returns a slice of pointers into s, the shape jsonapi marshals.
func pointers[T any](s []T) []*T {
	out := make([]*T, len(s))
	for i := range s {
		out[i] = &s[i]
	}
	return out
}

// keyValues parses repeated k=v flag values. A value may itself contain =.
func keyValues(flag string, list []string) (map[string]string, error) {
	out := make(map[string]string, len(list))
	for _, kv := range list {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--%s %q: want key=value", flag, kv)
		}
		out[k] = v
	}
	return out, nil
}
