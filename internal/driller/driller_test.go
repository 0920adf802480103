// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

type drillerTestCase struct {
	Name        string                 `yaml:"name"`
	JSON        map[string]interface{} `yaml:"json"`
	Path        string                 `yaml:"path"`
	ExpectedStr string                 `yaml:"expectedStr"`
	IsNil       bool                   `yaml:"isNil"`
	IsArray     bool                   `yaml:"isArray"`
}

func TestDriller(t *testing.T) {
	data, err := testDataFS.ReadFile("testdata/driller_cases.yaml")
	require.NoError(t, err)

	var tests []drillerTestCase
	require.NoError(t, yaml.Unmarshal(data, &tests))
	require.NotEmpty(t, tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			raw, err := json.Marshal(tt.JSON)
			require.NoError(t, err)
			result := Driller(string(raw), tt.Path)

			if tt.IsNil {
				assert.Nil(t, result.Value())
				return
			}

			require.True(t, result.Exists())
			if tt.IsArray {
				assert.True(t, result.IsArray(), "got %v", result.Value())
				return
			}
			assert.Equal(t, tt.ExpectedStr, result.String())
		})
	}
}
