// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chdir moves into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get cwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldCwd)
	})
}

func TestParseRootDir(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T) (arg, want string)
		wantErr  bool
		errIs    error
	}{
		{
			name: "absolute_path",
			setupDir: func(t *testing.T) (string, string) {
				d := t.TempDir()
				return d, d
			},
		},
		{
			name: "relative_path",
			setupDir: func(t *testing.T) (string, string) {
				d := t.TempDir()
				chdir(t, filepath.Dir(d))
				return filepath.Base(d), d
			},
		},
		{
			name: "dot_relative_path",
			setupDir: func(t *testing.T) (string, string) {
				d := t.TempDir()
				chdir(t, d)
				return ".", d
			},
		},
		{
			name: "parent_relative_path",
			setupDir: func(t *testing.T) (string, string) {
				d := t.TempDir()
				sub := filepath.Join(d, "infra")
				if err := os.Mkdir(sub, 0755); err != nil {
					t.Fatalf("failed to create subdir: %v", err)
				}
				chdir(t, sub)
				return "..", d
			},
		},
		{
			name: "tf_file_means_its_directory",
			setupDir: func(t *testing.T) (string, string) {
				d := t.TempDir()
				f := filepath.Join(d, "main.tf")
				if err := os.WriteFile(f, []byte("# glue\n"), 0600); err != nil {
					t.Fatalf("failed to create file: %v", err)
				}
				return f, d
			},
		},
		{
			name: "nonexistent_directory",
			setupDir: func(t *testing.T) (string, string) {
				return "/nonexistent/path/that/does/not/exist", ""
			},
			wantErr: true,
			errIs:   os.ErrNotExist,
		},
		{
			name: "other_file_not_directory",
			setupDir: func(t *testing.T) (string, string) {
				d := t.TempDir()
				f := filepath.Join(d, "orders.csv")
				if err := os.WriteFile(f, []byte("test"), 0600); err != nil {
					t.Fatalf("failed to create file: %v", err)
				}
				return f, ""
			},
			wantErr: true,
			errIs:   os.ErrInvalid,
		},
		{
			name: "empty_root_dir",
			setupDir: func(t *testing.T) (string, string) {
				return "", ""
			},
			wantErr: true,
			errIs:   os.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, want := tt.setupDir(t)

			dir, err := ParseRootDir(arg)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}

			assert.NoError(t, err)
			assert.True(t, filepath.IsAbs(dir))
			assert.DirExists(t, dir)
			wantReal, _ := filepath.EvalSymlinks(want)
			gotReal, _ := filepath.EvalSymlinks(dir)
			assert.Equal(t, wantReal, gotReal)
		})
	}
}
