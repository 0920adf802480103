// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gluectl/gluectl/internal/cacheutil"
	"github.com/gluectl/gluectl/internal/command"
	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/version"
)

var ctx = context.Background()

// repeatableFlags may legitimately appear more than once.
var repeatableFlags = map[string]bool{
	"--arg":    true,
	"--var":    true,
	"--ignore": true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs expands @sets and drops flags that a later occurrence
// overrides.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = deduplicateFlags(args)
	log.Debugf("args after dedup: args=%v", args)
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}
	if hours, _ := config.GetInt("cache.clean", 0); hours > 0 {
		if err := cacheutil.Purge(hours); err != nil {
			log.Warnf("cache purge: %v", err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// setInsertIdx is where set arguments go: right after the command, or after
// iq's RootDir.
func setInsertIdx(args []string) int {
	if len(args) > 2 && args[1] == "iq" && !strings.HasPrefix(args[2], "-") && !strings.HasPrefix(args[2], "@") {
		return 3
	}
	return 2
}

// processSetOnly expands an explicit @set argument from the <command>.<set>
// config key at its position. Without one, <command>.defaults is injected
// ahead of the user's own arguments so that they win.
func processSetOnly(args []string) []string {
	if len(args) < 2 {
		return args
	}

	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") {
			set := args[i][1:]
			rest := append([]string{}, args[i+1:]...)
			return injectConfigSet(append(args[:i], rest...), args[1]+"."+set, i)
		}
	}

	return injectConfigSet(args, args[1]+".defaults", setInsertIdx(args))
}

// injectConfigSet splits each entry of the config list at key into fields and
// inserts them at insertIdx.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, _ := config.GetStringSlice(key, nil)
	if len(entries) == 0 {
		return args
	}
	if insertIdx > len(args) {
		insertIdx = len(args)
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags keeps only the last occurrence of each flag so config
// sets and defaults can be overridden on the command line. A flag's value is
// the next argument unless that is another flag or the flag used =. Flags in
// repeatableFlags and everything after "--" are left alone.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}

	var (
		groups []group
		tail   []string
	)
	for i := 2; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			tail = args[i:]
			i = len(args)
		case len(a) > 1 && strings.HasPrefix(a, "-"):
			name, _, hasValue := strings.Cut(a, "=")
			g := group{name: name, tokens: []string{a}}
			if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				g.tokens = append(g.tokens, args[i+1])
				i++
			}
			groups = append(groups, g)
		default:
			groups = append(groups, group{tokens: []string{a}})
		}
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name == "" || repeatableFlags[g.name] || last[g.name] == i {
			out = append(out, g.tokens...)
		}
	}
	return append(out, tail...)
}
