// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/meta"
)

const bashCompletionScript = `# bash completion for gluectl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_gluectl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "aq cq di dq eq iq oq rq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t --tldr --schema"
    local aws="--region --profile"
    local athena="--database -d --workgroup --output_location --no-cache"
    local sel="--start --end --country --productline --top -n --source --file --dsn --infra"

    case "$cmd" in
        aq)
            local opts="$common $aws $athena orders countries productlines"
            ;;
        cq)
            local opts="$common $aws --database -d --crawler --crawl --status"
            ;;
        di)
            local opts="--tldr --color -c $aws $athena $sel"
            ;;
        dq)
            local opts="$common $aws $athena $sel --chart"
            ;;
        eq)
            local opts="$common $aws --job --limit --run --arg"
            ;;
        iq)
            local opts="$common $aws --validate --drift --var --ignore"
            ;;
        oq)
            local opts="$common $aws --gold_path --limit --chop"
            ;;
        rq)
            local opts="$common --host -h --org --workspace -w --limit"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --source)
            COMPREPLY=( $(compgen -W "athena mysql file" -- "$cur") )
            return 0
            ;;
        --file|--infra)
            COMPREPLY=( $(compgen -o default -- "$cur") )
            return 0
            ;;
    esac

    # iq takes an optional RootDir, everything else only flags.
    if [[ "$cmd" == "iq" && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _gluectl gluectl
`

const zshCompletionScript = `#compdef gluectl

_gluectl() {
  local -a cmds
  cmds=(
    'aq:athena query'
    'cq:catalog query'
    'di:dashboard interactive'
    'dq:dashboard query'
    'eq:ETL job run query'
    'iq:infra query'
    'oq:object query'
    'rq:provisioning run query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[show local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[cell padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  local -a aws
  aws=(
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  )

  local -a athena
  athena=(
  '(-d --database)'{-d,--database}'[catalog database]:database'
  '--workgroup[Athena workgroup]:workgroup'
  '--output_location[Athena result location]:location'
  '--no-cache[skip the result cache]'
  )

  local -a sel
  sel=(
  '--start[first order date]:date'
  '--end[last order date]:date'
  '--country[country or ALL]:country'
  '--productline[product line or ALL]:productline'
  '(-n --top)'{-n,--top}'[products to show]:top'
  '--source[order source]:source:(athena mysql file)'
  '--file[order file]:file:_files'
  '--dsn[MySQL DSN]:dsn'
  '--infra[Terraform directory]:dir:_directories'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'gluectl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    aq)
      _arguments -C $common $aws $athena '1:query:(orders countries productlines)'
      ;;
    cq)
      _arguments -C $common $aws \
        '(-d --database)'{-d,--database}'[catalog database]:database' \
        '--crawler[crawler]:crawler' \
        '--crawl[start the crawler]' \
        '--status[show crawler state]'
      ;;
    di)
      _arguments -C $aws $athena $sel \
        '(-c --color)'{-c,--color}'[enable colored bars]' \
        '--tldr[show tldr page]'
      ;;
    dq)
      _arguments -C $common $aws $athena $sel '--chart[plot a bar chart]'
      ;;
    eq)
      _arguments -C $common $aws \
        '--job[ETL job]:job' \
        '--limit[limit results]:limit' \
        '--run[start a run]' \
        '*--arg[argument override]:key=value'
      ;;
    iq)
      _arguments -C $common $aws \
        '--validate[check wiring]' \
        '--drift[diff against the live job]' \
        '*--var[variable override]:name=value' \
        '*--ignore[keys to leave out of the diff]:key' \
        '::RootDir:_directories'
      ;;
    oq)
      _arguments -C $common $aws \
        '--gold_path[gold s3 path]:path' \
        '--limit[limit results]:limit' \
        '--chop[chop shared leading directories]'
      ;;
    rq)
      _arguments -C $common \
        '(-h --host)'{-h,--host}'[host]:host' \
        '--org[organization]:org' \
        '(-w --workspace)'{-w,--workspace}'[workspace]:workspace' \
        '--limit[limit results]:limit'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _gluectl gluectl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: gluectl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "gluectl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
