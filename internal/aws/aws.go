// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	athenav2 "github.com/aws/aws-sdk-go-v2/service/athena"
	gluev2 "github.com/aws/aws-sdk-go-v2/service/glue"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/gluectl/gluectl/internal/log"
)

// ErrNotS3URL is returned by ParseS3URL for anything that is not s3://bucket[/key].
var ErrNotS3URL = errors.New("not an s3:// URL")

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	loadOpts := []func(*config.LoadOptions) error{
		config.WithAppID("gluectl"),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	log.Debugf("config loaded: region=%s", cfg.Region)
	return cfg, nil
}

// NewS3 constructs a v2 S3 client from the provided config.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created")
	return client
}

// NewAthena constructs a v2 Athena client from the provided config.
func NewAthena(cfg awsv2.Config, optFns ...func(*athenav2.Options)) *athenav2.Client {
	client := athenav2.NewFromConfig(cfg, optFns...)
	log.Debugf("athena client created")
	return client
}

// NewGlue constructs a v2 Glue client from the provided config.
func NewGlue(cfg awsv2.Config, optFns ...func(*gluev2.Options)) *gluev2.Client {
	client := gluev2.NewFromConfig(cfg, optFns...)
	log.Debugf("glue client created")
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// ParseS3URL splits s3://bucket/key/prefix into bucket and key. The key has no
// leading slash and may be empty.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrNotS3URL, raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotS3URL, raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Describe wraps an AWS SDK error with the operation name and, when the
// service returned one, its error code and message. The original error stays
// reachable through errors.Is/As.
func Describe(operation string, err error) error {
	if err == nil {
		return nil
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		return fmt.Errorf("%s: %s: %s: %w", operation, ae.ErrorCode(), ae.ErrorMessage(), err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
