// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseRootDir resolves the RootDir argument of iq to an absolute directory.
// A path to a .tf file stands for the directory holding it.
func ParseRootDir(rootDir string) (string, error) {
	if rootDir == "" {
		return "", os.ErrInvalid
	}

	dir, err := filepath.Abs(rootDir)
	if err != nil {
		return "", err
	}

	r, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !r.IsDir() {
		if !strings.HasSuffix(dir, ".tf") {
			return "", os.ErrInvalid
		}
		dir = filepath.Dir(dir)
	}

	return dir, nil
}
