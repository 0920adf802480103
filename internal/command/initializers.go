// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/athena"
	"github.com/gluectl/gluectl/internal/aws"
	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/glue"
	"github.com/gluectl/gluectl/internal/infra"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/source"
	"github.com/gluectl/gluectl/internal/tfc"
)

// maxAttempts bounds SDK retries of throttled or transient AWS calls.
const maxAttempts = 5

// Client constructors. Tests replace them with fakes.
var (
	loadAWSConfig = aws.LoadAWSConfig

	newAthenaAPI = func(cfg awsv2.Config) athena.API { return aws.NewAthena(cfg) }
	newGlueAPI   = func(cfg awsv2.Config) glue.API { return aws.NewGlue(cfg) }
	newS3API     = func(cfg awsv2.Config) s3v2.ListObjectsV2APIClient { return aws.NewS3(cfg) }

	newTFC = func(host, token string) (*tfc.Client, error) { return tfc.NewClient(host, token) }
)

// InitAWS loads the AWS config for --region and --profile, falling back to the
// shell's AWS setup for whichever is empty.
func InitAWS(ctx context.Context, cmd *cli.Command) (awsv2.Config, error) {
	opts := []aws.Option{
		aws.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), maxAttempts)
		}),
	}
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}
	return loadAWSConfig(ctx, opts...)
}

// InitGlueClient returns a Glue client for the command's AWS settings.
func InitGlueClient(ctx context.Context, cmd *cli.Command) (*glue.Client, error) {
	cfg, err := InitAWS(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &glue.Client{API: newGlueAPI(cfg)}, nil
}

// InitAthenaRunner returns a query runner for --database and --workgroup.
// Cached results older than cache.clean hours are not reused.
func InitAthenaRunner(ctx context.Context, cmd *cli.Command) (*athena.Runner, error) {
	cfg, err := InitAWS(ctx, cmd)
	if err != nil {
		return nil, err
	}
	hours, _ := config.GetInt("cache.clean", 0)

	r := &athena.Runner{
		API:            newAthenaAPI(cfg),
		Database:       cmd.String("database"),
		Workgroup:      cmd.String("workgroup"),
		OutputLocation: cmd.String("output_location"),
		NoCache:        cmd.Bool("no-cache"),
		CacheMaxAge:    time.Duration(hours) * time.Hour,
	}
	log.Debugf("athena runner: db=%s wg=%s", r.Database, r.Workgroup)
	return r, nil
}

// InitSource opens the order source selected by --source. The returned
// closer is never nil.
func InitSource(ctx context.Context, cmd *cli.Command) (source.Source, func(), error) {
	noop := func() {}
	kind := cmd.String("source")

	opts := source.Options{
		Catalog: catalogFromConfig(),
		DSN:     cmd.String("dsn"),
		Path:    cmd.String("file"),
	}

	switch kind {
	case "", source.KindAthena:
		r, err := InitAthenaRunner(ctx, cmd)
		if err != nil {
			return nil, noop, err
		}
		opts.Athena = r
	case source.KindMySQL:
		if opts.DSN == "" && cmd.String("infra") != "" {
			dsn, err := dsnFromInfra(cmd.String("infra"))
			if err != nil {
				return nil, noop, err
			}
			opts.DSN = dsn
		}
	}

	src, err := source.New(ctx, kind, opts)
	if err != nil {
		return nil, noop, err
	}
	if m, ok := src.(*source.MySQLSource); ok {
		return src, func() {
			if err := m.Close(); err != nil {
				log.Warnf("closing mysql source: %v", err)
			}
		}, nil
	}
	return src, noop, nil
}

// catalogFromConfig reads catalog.orders, catalog.products and
// catalog.locations. Missing keys keep the default table names.
func catalogFromConfig() source.Catalog {
	orders, _ := config.GetString("catalog.orders", "")
	products, _ := config.GetString("catalog.products", "")
	locations, _ := config.GetString("catalog.locations", "")
	return source.Catalog{Orders: orders, Products: products, Locations: locations}
}

// dsnFromInfra builds the MySQL DSN from the Glue connection declared in dir.
func dsnFromInfra(dir string) (string, error) {
	decls, err := infra.Load(dir, nil)
	if err != nil {
		return "", err
	}
	stack, err := infra.NewStack(decls)
	if err != nil {
		return "", err
	}
	dsn, err := stack.DSN()
	if err != nil {
		return "", fmt.Errorf("no DSN in %s: %w", dir, err)
	}
	return dsn, nil
}

// InitTFC returns a Terraform Cloud client for --host. The token comes from
// the environment, the token config key or the Terraform CLI credentials.
func InitTFC(cmd *cli.Command) (*tfc.Client, error) {
	token, _ := config.GetString("token", "")
	return newTFC(cmd.String("host"), token)
}
