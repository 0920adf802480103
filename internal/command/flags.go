// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/athena"
	"github.com/gluectl/gluectl/internal/source"
	"github.com/gluectl/gluectl/internal/tfc"
)

var (
	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}

	noCacheFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:  "no-cache",
		Usage: "skip the Athena result cache",
	}
)

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "cell padding for text output",
			Value: 1,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewAWSFlags returns the --region and --profile flags. Both fall back to the
// standard AWS variables and then to the config file.
func NewAWSFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "region",
			Usage: "AWS region",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GLUECTL_REGION"),
				cli.EnvVar("AWS_REGION"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GLUECTL_PROFILE"),
				cli.EnvVar("AWS_PROFILE"),
			),
		}),
	}
}

// NewDatabaseFlag is the Glue catalog database, which is also the Athena
// database.
func NewDatabaseFlag(ns, path string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Usage:   "Glue catalog database",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GLUECTL_DATABASE"),
		),
	})
}

// NewAthenaFlags returns the flags an Athena query needs beyond the database.
func NewAthenaFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "workgroup",
			Usage: "Athena workgroup",
			Value: athena.DefaultWorkgroup,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GLUECTL_WORKGROUP"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "output_location",
			Usage: "s3:// location for Athena results, when the workgroup has none",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GLUECTL_OUTPUT_LOCATION"),
			),
		}),
		noCacheFlag,
	}
}

// NewSourceFlags returns the flags that pick and configure the order source.
func NewSourceFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "source",
			Usage: "order source: athena, mysql or file",
			Value: source.KindAthena,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GLUECTL_SOURCE"),
			),
			Validator: func(value string) error {
				return FlagValidators(value, SourceValidator)
			},
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "file",
			Usage: "CSV or JSON order file for --source file",
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "dsn",
			Usage: "MySQL DSN for --source mysql. Defaults to the declared Glue connection",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GLUECTL_DSN"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "infra",
			Usage: "Terraform directory declaring the Glue connection, for --source mysql",
		}),
	}
}

// NewSelectionFlags returns the widget flags of the filter cascade.
func NewSelectionFlags(ns, path string) []cli.Flag {
	top := &cli.IntFlag{
		Name:    "top",
		Aliases: []string{"n"},
		Usage:   "number of products to show (1-10)",
		Value:   5,
		Validator: func(value int) error {
			return FlagValidators(value, TopValidator)
		},
	}
	configChain(ns, path, top.Name, &top.Sources)

	return []cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Usage: "first order date, YYYY-MM-DD",
			Validator: func(value string) error {
				return FlagValidators(value, DateValidator)
			},
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "last order date, YYYY-MM-DD",
			Validator: func(value string) error {
				return FlagValidators(value, DateValidator)
			},
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "country",
			Usage: "country, or ALL",
			Value: "ALL",
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "productline",
			Usage: "product line, or ALL",
			Value: "ALL",
		}),
		top,
	}
}

// NewNamedFlag returns a string flag for one named Glue resource (job,
// crawler) read from GLUECTL_<NAME> and the config file.
func NewNamedFlag(ns, path, name, envVar, usage string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:  name,
		Usage: usage,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(envVar),
		),
	})
}

// NewHostFlag constructs the Terraform Cloud host flag.
func NewHostFlag(ns, path string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:    "host",
		Aliases: []string{"h"},
		Usage:   "Terraform Cloud host",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GLUECTL_HOST"),
			cli.EnvVar("TF_CLOUD_HOSTNAME"),
		),
		Value: tfc.DefaultHost,
	})
}

// NewOrgFlag constructs the Terraform Cloud organization flag.
func NewOrgFlag(ns, path string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:  "org",
		Usage: "Terraform Cloud organization",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GLUECTL_ORG"),
			cli.EnvVar("TF_CLOUD_ORGANIZATION"),
		),
	})
}

// NewWorkspaceFlag constructs the Terraform Cloud workspace flag.
func NewWorkspaceFlag(ns, path string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:    "workspace",
		Aliases: []string{"w"},
		Usage:   "Terraform Cloud workspace that applies the Glue stack",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GLUECTL_WORKSPACE"),
			cli.EnvVar("TF_WORKSPACE"),
		),
	})
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	configChain(ns, path, flag.Name, &flag.Sources)
	return flag
}

// configChain appends ns.name and then name, read from the YAML config at
// path, to chain. Nothing is added without a config file.
func configChain(ns, path, name string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
