// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package infra

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/gluectl/gluectl/internal/log"
)

// ErrNoConfig is returned when a directory holds no *.tf files.
var ErrNoConfig = errors.New("no *.tf files found")

// maxPasses bounds reference resolution. Each pass can resolve one more link
// in a chain of resource references.
const maxPasses = 5

// Declaration is one resource block. Attributes holds plain Go values; nested
// blocks appear as []any of map[string]any under the block type. Paths of
// attributes that could not be resolved are listed in Unresolved and their
// value is the expression's source text.
type Declaration struct {
	Type       string
	Name       string
	Address    string
	File       string
	Line       int
	Attributes map[string]any
	Unresolved []string
}

type resource struct {
	decl  Declaration
	body  *hclsyntax.Body
	src   []byte
	value cty.Value
}

type local struct {
	expr hclsyntax.Expression
}

type loader struct {
	vars      map[string]cty.Value
	locals    map[string]local
	localVals map[string]cty.Value
	resources []*resource
}

// Load parses the *.tf files in dir. vars overrides variable defaults; values
// are converted to the default's type where there is one.
func Load(dir string, vars map[string]string) ([]Declaration, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.tf"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoConfig, dir)
	}
	sort.Strings(paths)

	l := &loader{
		vars:      map[string]cty.Value{},
		locals:    map[string]local{},
		localVals: map[string]cty.Value{},
	}

	parser := hclparse.NewParser()
	var diags hcl.Diagnostics
	for _, p := range paths {
		f, d := parser.ParseHCLFile(p)
		diags = append(diags, d...)
		if f == nil {
			continue
		}
		body, ok := f.Body.(*hclsyntax.Body)
		if !ok {
			continue
		}
		l.collect(p, f.Bytes, body)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", dir, diags)
	}

	if err := l.override(vars); err != nil {
		return nil, err
	}
	l.resolve()

	decls := make([]Declaration, 0, len(l.resources))
	for _, r := range l.resources {
		decls = append(decls, r.decl)
	}
	log.Debugf("loaded %d resources from %d files in %s", len(decls), len(paths), dir)
	return decls, nil
}

func (l *loader) collect(path string, src []byte, body *hclsyntax.Body) {
	fnCtx := &hcl.EvalContext{Functions: functions()}

	for _, b := range body.Blocks {
		switch b.Type {
		case "variable":
			if len(b.Labels) != 1 {
				continue
			}
			v := cty.DynamicVal
			if a, ok := b.Body.Attributes["default"]; ok {
				if dv, d := a.Expr.Value(fnCtx); !d.HasErrors() {
					v = dv
				}
			}
			l.vars[b.Labels[0]] = v
		case "locals":
			for name, a := range b.Body.Attributes {
				l.locals[name] = local{expr: a.Expr}
			}
		case "resource":
			if len(b.Labels) != 2 {
				continue
			}
			l.resources = append(l.resources, &resource{
				decl: Declaration{
					Type:    b.Labels[0],
					Name:    b.Labels[1],
					Address: b.Labels[0] + "." + b.Labels[1],
					File:    filepath.Base(path),
					Line:    b.DefRange().Start.Line,
				},
				body:  b.Body,
				src:   src,
				value: cty.DynamicVal,
			})
		}
	}
}

func (l *loader) override(vars map[string]string) error {
	for k, raw := range vars {
		cur, ok := l.vars[k]
		if !ok {
			log.Warnf("ignoring --var %s: no such variable", k)
			continue
		}

		v := cty.StringVal(raw)
		if t := cur.Type(); t != cty.DynamicPseudoType && t != cty.String {
			conv, err := convert.Convert(v, t)
			if err != nil {
				return fmt.Errorf("--var %s: %w", k, err)
			}
			v = conv
		}
		l.vars[k] = v
	}
	return nil
}

// resolve evaluates locals and resource bodies until a pass resolves
// nothing new. It always runs at least two passes so that references to
// resources declared later in the files are picked up.
func (l *loader) resolve() {
	prev := -1
	for pass := 0; pass < maxPasses; pass++ {
		ctx := l.evalContext()

		for name, lc := range l.locals {
			v, d := lc.expr.Value(ctx)
			if d.HasErrors() || !v.IsWhollyKnown() {
				v = cty.DynamicVal
			}
			l.localVals[name] = v
		}

		unresolved := 0
		for _, r := range l.resources {
			r.value, r.decl.Attributes, r.decl.Unresolved = evalBody(r.body, ctx, r.src, "")
			unresolved += len(r.decl.Unresolved)
		}
		log.Tracef("pass %d: %d unresolved", pass, unresolved)

		if pass > 0 && unresolved == prev {
			break
		}
		prev = unresolved
	}
}

func (l *loader) evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{
		"var":   cty.ObjectVal(l.vars),
		"local": cty.ObjectVal(l.localVals),
	}

	byType := map[string]map[string]cty.Value{}
	for _, r := range l.resources {
		if byType[r.decl.Type] == nil {
			byType[r.decl.Type] = map[string]cty.Value{}
		}
		byType[r.decl.Type][r.decl.Name] = r.value
	}
	for typ, named := range byType {
		vars[typ] = cty.ObjectVal(named)
	}

	return &hcl.EvalContext{Variables: vars, Functions: functions()}
}

// evalBody evaluates one block body. It returns the body as a cty object for
// later passes, as plain Go values, and the unresolved attribute paths.
func evalBody(body *hclsyntax.Body, ctx *hcl.EvalContext, src []byte, prefix string) (cty.Value, map[string]any, []string) {
	vals := map[string]cty.Value{}
	attrs := map[string]any{}
	var unresolved []string

	for name, a := range body.Attributes {
		v, g, un := evalExpr(a.Expr, ctx, src, join(prefix, name))
		vals[name] = v
		attrs[name] = g
		unresolved = append(unresolved, un...)
	}

	var order []string
	blocks := map[string][]*hclsyntax.Block{}
	for _, b := range body.Blocks {
		if _, seen := blocks[b.Type]; !seen {
			order = append(order, b.Type)
		}
		blocks[b.Type] = append(blocks[b.Type], b)
	}
	for _, typ := range order {
		objs := make([]cty.Value, 0, len(blocks[typ]))
		list := make([]any, 0, len(blocks[typ]))
		for i, b := range blocks[typ] {
			ov, am, un := evalBody(b.Body, ctx, src, fmt.Sprintf("%s.%d", join(prefix, typ), i))
			objs = append(objs, ov)
			list = append(list, am)
			unresolved = append(unresolved, un...)
		}
		vals[typ] = cty.TupleVal(objs)
		attrs[typ] = list
	}

	sort.Strings(unresolved)
	return cty.ObjectVal(vals), attrs, unresolved
}

// evalExpr evaluates one expression. When an object or tuple constructor is
// only partly known, its items are evaluated one by one so the known ones
// survive.
func evalExpr(expr hclsyntax.Expression, ctx *hcl.EvalContext, src []byte, path string) (cty.Value, any, []string) {
	v, d := expr.Value(ctx)
	if !d.HasErrors() && v.IsWhollyKnown() {
		if g, err := toGo(v); err == nil {
			return v, g, nil
		}
	}

	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		vals := map[string]cty.Value{}
		m := map[string]any{}
		var unresolved []string
		ok := true
		for _, item := range e.Items {
			kv, kd := item.KeyExpr.Value(ctx)
			if kd.HasErrors() || !kv.IsKnown() || kv.IsNull() {
				ok = false
				break
			}
			kv, err := convert.Convert(kv, cty.String)
			if err != nil {
				ok = false
				break
			}
			key := kv.AsString()
			iv, ig, un := evalExpr(item.ValueExpr, ctx, src, path+"."+key)
			vals[key] = iv
			m[key] = ig
			unresolved = append(unresolved, un...)
		}
		if ok {
			return cty.ObjectVal(vals), m, unresolved
		}
	case *hclsyntax.TupleConsExpr:
		vals := make([]cty.Value, 0, len(e.Exprs))
		list := make([]any, 0, len(e.Exprs))
		var unresolved []string
		for i, x := range e.Exprs {
			iv, ig, un := evalExpr(x, ctx, src, fmt.Sprintf("%s.%d", path, i))
			vals = append(vals, iv)
			list = append(list, ig)
			unresolved = append(unresolved, un...)
		}
		return cty.TupleVal(vals), list, unresolved
	}

	return cty.DynamicVal, sourceText(src, expr.Range()), []string{path}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func sourceText(src []byte, rng hcl.Range) string {
	if rng.Start.Byte < 0 || rng.End.Byte > len(src) || rng.Start.Byte >= rng.End.Byte {
		return ""
	}
	return strings.TrimSpace(string(src[rng.Start.Byte:rng.End.Byte]))
}

var sensitive = regexp.MustCompile(`(?i)password|secret|token`)

// Redact returns a copy of attrs with values under sensitive-looking keys
// replaced, at any depth.
func Redact(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if sensitive.MatchString(k) {
			out[k] = "(sensitive)"
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Redact(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = redactValue(t[i])
		}
		return out
	}
	return v
}
