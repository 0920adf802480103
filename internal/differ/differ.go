// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/gluectl/gluectl/internal/log"
)

// Identical is printed when the documents match after ignored keys are dropped.
const Identical = "The job definitions are identical."

// Options tunes Diff. Ignore holds dotted key paths removed from both sides
// before comparing.
type Options struct {
	Ignore []string
	Color  bool
}

// Diff compares declared against live and writes an ASCII delta to w. It
// reports whether the documents differ.
func Diff(w io.Writer, declared, live []byte, opts Options) (bool, error) {
	left, err := prune(declared, opts.Ignore)
	if err != nil {
		return false, fmt.Errorf("failed to read declared document: %w", err)
	}
	right, err := prune(live, opts.Ignore)
	if err != nil {
		return false, fmt.Errorf("failed to read live document: %w", err)
	}
	log.Debugf("diff: declared=%d bytes live=%d bytes ignore=%v", len(declared), len(live), opts.Ignore)

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, Identical)
		return false, nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	}
	out, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return true, err
	}

	fmt.Fprint(w, out)
	return true, nil
}

func prune(doc []byte, ignore []string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	for _, path := range ignore {
		if path = strings.TrimSpace(path); path != "" {
			remove(m, strings.Split(path, "."))
		}
	}
	return m, nil
}

func remove(m map[string]any, path []string) {
	if len(path) == 1 {
		delete(m, path[0])
		return
	}
	if child, ok := m[path[0]].(map[string]any); ok {
		remove(child, path[1:])
	}
}
