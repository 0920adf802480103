// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package athena

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResultSet is a fully paged query result. Values are Athena's VARCHAR
// renderings; NULL comes back as "".
type ResultSet struct {
	Columns []string   `json:"columns"`
	Types   []string   `json:"types"`
	Rows    [][]string `json:"rows"`
}

// Maps returns one column-name keyed map per row.
func (rs *ResultSet) Maps() []map[string]string {
	out := make([]map[string]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		m := make(map[string]string, len(rs.Columns))
		for i, c := range rs.Columns {
			if i < len(row) {
				m[c] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// Payload renders the rows as a JSON:API document of "athena-rows" resources
// so they can be pushed through the output pipeline. Numeric columns become
// JSON numbers.
func (rs *ResultSet) Payload() ([]byte, error) {
	type resource struct {
		Type       string         `json:"type"`
		ID         string         `json:"id"`
		Attributes map[string]any `json:"attributes"`
	}

	data := make([]resource, 0, len(rs.Rows))
	for n, row := range rs.Rows {
		attrs := make(map[string]any, len(rs.Columns))
		for i, c := range rs.Columns {
			if i >= len(row) {
				continue
			}
			attrs[c] = rs.value(i, row[i])
		}
		data = append(data, resource{Type: "athena-rows", ID: strconv.Itoa(n + 1), Attributes: attrs})
	}

	b, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result set: %w", err)
	}
	return b, nil
}

func (rs *ResultSet) value(col int, s string) any {
	if col >= len(rs.Types) || s == "" {
		return s
	}
	switch t := strings.ToLower(rs.Types[col]); {
	case t == "tinyint", t == "smallint", t == "integer", t == "bigint":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case t == "float", t == "real", t == "double", strings.HasPrefix(t, "decimal"):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case t == "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
