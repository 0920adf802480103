// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/gluectl/gluectl/internal/attrs"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
	WantCount int      `yaml:"wantCount"`
}

type testCheckStringOperandCase struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
	Filter Filter `yaml:"filter"`
	Want   bool   `yaml:"want"`
}

type testCheckNumericOperandCase struct {
	Name   string  `yaml:"name"`
	Value  float64 `yaml:"value"`
	Filter Filter  `yaml:"filter"`
	Want   bool    `yaml:"want"`
}

type testCheckContainsOperandCase struct {
	Name   string      `yaml:"name"`
	Value  interface{} `yaml:"value"`
	Filter Filter      `yaml:"filter"`
	Want   bool        `yaml:"want"`
}

type testApplyFiltersCase struct {
	Name    string   `yaml:"name"`
	Filters []Filter `yaml:"filters"`
	Want    bool     `yaml:"want"`
}

type testFilterDatasetCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	WantCount int      `yaml:"wantCount"`
	WantCodes []string `yaml:"wantCodes"`
}

func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	require.NoError(t, loadTestData("filters_test_build_filters.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			t.Setenv("GLUECTL_FILTER_DELIM", tt.Delimiter)

			got := BuildFilters(tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, want := range tt.Want {
				assert.Equal(t, want.Key, got[i].Key)
				assert.Equal(t, want.Operand, got[i].Operand)
				assert.Equal(t, want.Value, got[i].Value)
				assert.Equal(t, want.Negate, got[i].Negate)
				assert.Equal(t, want.ServerSide, got[i].ServerSide)
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	var tests []testCheckStringOperandCase
	require.NoError(t, loadTestData("filters_test_check_string_operand.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkStringOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	var tests []testCheckNumericOperandCase
	require.NoError(t, loadTestData("filters_test_check_numeric_operand.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkNumericOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	var tests []testCheckContainsOperandCase
	require.NoError(t, loadTestData("filters_test_check_contains_operand.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkContainsOperand(tt.Value, tt.Filter))
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOk bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"int64", int64(7), 7, true},
		{"json number", json.Number("2.25"), 2.25, true},
		{"bad json number", json.Number("x"), 0, false},
		{"string", "3", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toFloat64(tt.value)
			assert.Equal(t, tt.wantOk, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestApplyFilters(t *testing.T) {
	var tests []testApplyFiltersCase
	require.NoError(t, loadTestData("filters_test_apply_filters.yaml", &tests))

	jobRun := `{
		"id": "jr_1",
		"attributes": {
			"state": "SUCCEEDED",
			"execution-time": 95,
			"streaming": false,
			"arguments": ["--day", "--country"],
			"error": null
		}
	}`

	attrList := attrs.AttrList{
		{Key: "attributes.state", OutputKey: "state", Include: true},
		{Key: "attributes.execution-time", OutputKey: "execution-time", Include: true},
		{Key: "attributes.streaming", OutputKey: "streaming", Include: true},
		{Key: "attributes.arguments", OutputKey: "arguments", Include: true},
		{Key: "attributes.error", OutputKey: "error", Include: true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := applyFilters(gjson.Parse(jobRun), attrList, tt.Filters)
			assert.Equal(t, tt.Want, got)
		})
	}
}

func TestFilterDataset(t *testing.T) {
	var tests []testFilterDatasetCase
	require.NoError(t, loadTestData("filters_test_filter_dataset.yaml", &tests))

	rows := `[
		{"id": "1", "attributes": {"product-code": "S10_1678", "country": "USA", "sales": 900}},
		{"id": "2", "attributes": {"product-code": "S18_3232", "country": "France", "sales": 1200.5}},
		{"id": "3", "attributes": {"product-code": "S24_2300", "country": "USA", "sales": 50}}
	]`

	attrList := attrs.AttrList{
		{Key: "attributes.product-code", OutputKey: "product-code", Include: true},
		{Key: "attributes.country", OutputKey: "country", Include: true},
		{Key: "attributes.sales", OutputKey: "sales", Include: true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := FilterDataset(gjson.Parse(rows), attrList, tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, code := range tt.WantCodes {
				assert.Equal(t, code, got[i]["product-code"])
			}
		})
	}
}

func TestServerSide(t *testing.T) {
	got := ServerSide("_state=FAILED,country=USA,_status!=applied,_job^x")
	assert.Equal(t, map[string]string{"state": "FAILED"}, got)
	assert.Empty(t, ServerSide(""))
}
