// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for gluectl's user
// configuration. The configuration is a YAML document located by
// GLUECTL_CFG_FILE or in the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/gluectl.yaml or $HOME/.config/gluectl.yaml
//   - macOS: $HOME/Library/Application Support/gluectl.yaml
//   - Windows: %APPDATA%/gluectl.yaml
//
// A .env file in the working directory is loaded before the YAML document so
// AWS_PROFILE, AWS_REGION and the GLUECTL_* variables can live with a project.
package config
