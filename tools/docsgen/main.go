// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen renders the markdown, man and tldr pages for every gluectl
// subcommand from the live command tree plus docs/examples.yaml.
//
//	go run ./tools/docsgen docs
package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/gluectl/gluectl/internal/command"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Extras is the hand-written part of the docs, keyed by subcommand.
type Extras struct {
	Subcommands map[string]Extra `yaml:"subcommands"`
}

type Extra struct {
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Subcommand struct {
	ID          string
	Short       string
	Description string
	Usage       string
	Flags       []Flag
	Examples    []Example
	Notes       []string
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
	Env         string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(docs string) error {
	extras, err := loadExtras(filepath.Join(docs, "examples.yaml"))
	if err != nil {
		return err
	}

	app, err := command.InitApp(context.Background(), []string{"gluectl"})
	if err != nil {
		return err
	}

	types := []Outputs{
		{Template: "templates/gluectl.md.tmpl", Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: "templates/gluectl.man.tmpl", Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "gluectl-", Suffix: ".1"},
		{Template: "templates/gluectl.tldr.tmpl", Folder: filepath.Join(docs, "tldr"), Prefix: "gluectl-", Suffix: ".md"},
	}

	version := getVersion()
	for _, sub := range subcommands(app, extras) {
		data := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    version,
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				return err
			}
			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)

			file, err := os.Create(path)
			if err != nil {
				return err
			}
			err = render(file, t.Template, data)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return nil
}

func loadExtras(path string) (Extras, error) {
	var extras Extras
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return extras, nil
		}
		return extras, err
	}
	if err := yaml.Unmarshal(data, &extras); err != nil {
		return extras, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return extras, nil
}

// subcommands describes every subcommand of app, flags sorted by name.
func subcommands(app *cli.Command, extras Extras) []Subcommand {
	var out []Subcommand
	for _, cmd := range app.Commands {
		extra := extras.Subcommands[cmd.Name]
		sub := Subcommand{
			ID:          cmd.Name,
			Short:       cmd.Usage,
			Description: strings.TrimSpace(extra.Description),
			Usage:       cmd.UsageText,
			Examples:    extra.Examples,
			Notes:       extra.Notes,
		}
		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, flagOf(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool {
			return sub.Flags[i].ID < sub.Flags[j].ID
		})
		out = append(out, sub)
	}
	return out
}

func flagOf(f cli.Flag) Flag {
	names := f.Names()
	syntax := make([]string, 0, len(names))
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}

	flag := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
	if u, ok := f.(interface{ GetUsage() string }); ok {
		flag.Description = u.GetUsage()
	}
	if d, ok := f.(interface{ GetDefaultText() string }); ok {
		flag.Default = d.GetDefaultText()
	}
	if e, ok := f.(interface{ GetEnvVars() []string }); ok {
		flag.Env = strings.Join(e.GetEnvVars(), ", ")
	}
	return flag
}

func render(w io.Writer, name string, data TemplateData) error {
	tmpl, err := template.New(filepath.Base(name)).Funcs(template.FuncMap{
		"upper": strings.ToUpper,
	}).ParseFS(templates, name)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
