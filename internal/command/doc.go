// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for gluectl. It wires flags,
// validators, actions, and shell completion for subcommands.
//
// Every query command follows the same pattern: a QueryCommandBuilder adds
// the global output flags, a fetch function collects JSON:API tagged
// structs, and a QueryActionRunner pushes them through output.SliceDiceSpit.
// Server-side filters (--filter _state=FAILED) are applied to API options by
// an Augmenter before the call.
package command
