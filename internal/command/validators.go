// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/sales"
	"github.com/gluectl/gluectl/internal/source"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks flag combinations that single flag validators
// cannot see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.IsSet("start") && c.IsSet("end") {
		start, _ := sales.ParseDate(c.String("start"))
		end, _ := sales.ParseDate(c.String("end"))
		sel := sales.Selection{Start: start, End: end, Top: sales.MinTop}
		if err := sel.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// DateValidator accepts an empty value or anything sales.ParseDate reads.
func DateValidator(value any) error {
	s, _ := value.(string)
	if _, err := sales.ParseDate(s); err != nil {
		return fmt.Errorf("must be a date in %s form", sales.DateLayout)
	}
	return nil
}

// TopValidator keeps the top-N count inside the slider bounds.
func TopValidator(value any) error {
	n, ok := value.(int)
	if !ok || n < sales.MinTop || n > sales.MaxTop {
		return fmt.Errorf("must be between %d and %d", sales.MinTop, sales.MaxTop)
	}
	return nil
}

func SourceValidator(value any) error {
	valid := []string{source.KindAthena, source.KindMySQL, source.KindFile}
	s, _ := value.(string)
	if !slices.Contains(valid, strings.ToLower(s)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
