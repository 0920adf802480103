// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/gluectl/gluectl/internal/aws"
	"github.com/gluectl/gluectl/internal/config"
	"github.com/gluectl/gluectl/internal/log"
	"github.com/gluectl/gluectl/internal/meta"
)

var errGoldPathNotSet = errors.New("gold path not set, use --gold_path or the gold_path config key")

// oqDefaultAttrs specifies the default attributes displayed for objects in
// the "oq" command output.
var oqDefaultAttrs = []string{"key", "partition", "size::b", "last-modified"}

// goldObject is one object under the gold path. Key is relative to the gold
// path; Partition is its Hive-style directory (country=France/year=2004).
type goldObject struct {
	ID           string    `jsonapi:"primary,objects"`
	Key          string    `jsonapi:"attr,key"`
	Partition    string    `jsonapi:"attr,partition"`
	Size         int64     `jsonapi:"attr,size"`
	LastModified time.Time `jsonapi:"attr,last-modified,iso8601"`
	StorageClass string    `jsonapi:"attr,storage-class"`
}

// listGold pages through every object under goldPath. limit > 0 stops early.
func listGold(ctx context.Context, api s3v2.ListObjectsV2APIClient, goldPath string, limit int) ([]goldObject, error) {
	bucket, prefix, err := aws.ParseS3URL(goldPath)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var out []goldObject
	p := s3v2.NewListObjectsV2Paginator(api, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(bucket),
		Prefix: awsv2.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, aws.Describe("list objects", err)
		}
		for _, o := range page.Contents {
			key := awsv2.ToString(o.Key)
			rel := strings.TrimPrefix(key, prefix)
			if rel == "" || strings.HasSuffix(rel, "/") {
				continue
			}
			out = append(out, goldObject{
				ID:           fmt.Sprintf("s3://%s/%s", bucket, key),
				Key:          rel,
				Partition:    partitionOf(rel),
				Size:         awsv2.ToInt64(o.Size),
				LastModified: awsv2.ToTime(o.LastModified),
				StorageClass: string(o.StorageClass),
			})
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	log.Debugf("listed %d objects under %s", len(out), goldPath)
	return out, nil
}

// partitionOf keeps the key=value directories of a relative key.
func partitionOf(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	var parts []string
	for _, seg := range strings.Split(dir, "/") {
		if strings.Contains(seg, "=") {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}

// oqCommandAction is the action handler for the "oq" subcommand. It lists the
// parquet the ETL job wrote under the gold path.
func oqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "oq"

	fn := func(ctx context.Context, cmd *cli.Command) ([]*goldObject, error) {
		goldPath := cmd.String("gold_path")
		if goldPath == "" {
			return nil, errGoldPathNotSet
		}
		cfg, err := InitAWS(ctx, cmd)
		if err != nil {
			return nil, err
		}
		objects, err := listGold(ctx, newS3API(cfg), goldPath, int(cmd.Int("limit")))
		if err != nil {
			return nil, err
		}

		if cmd.Bool("titles") {
			var total int64
			for _, o := range objects {
				total += o.Size
			}
			cmd.Metadata["footer"] = fmt.Sprintf("%s objects, %s", humanize.Comma(int64(len(objects))), humanize.Bytes(uint64(total)))
		}
		return pointers(objects), nil
	}

	runner := NewQueryActionRunner(
		"oq",
		reflect.TypeOf((*goldObject)(nil)).Elem(),
		oqDefaultAttrs,
		fn,
	)
	if cmd.Bool("chop") {
		runner.PostProcess = func(dataset []map[string]interface{}) error {
			chopPrefix(dataset, "/")
			return nil
		}
	}
	return runner.Run(ctx, cmd)
}

// oqCommandBuilder constructs the cli.Command for "oq", configuring metadata,
// flags, and the associated action/validator.
func oqCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewNamedFlag("oq", meta.Config.Source, "gold_path", "GLUECTL_GOLD_PATH", "s3:// path the ETL job writes to"),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "show at most this many objects, 0 for all",
		},
		&cli.BoolFlag{
			Name:  "chop",
			Usage: "chop the leading directories all keys share",
		},
	}
	flags = append(flags, NewAWSFlags("oq", meta.Config.Source)...)

	return (&QueryCommandBuilder{
		Name:      "oq",
		Usage:     "object query",
		UsageText: "gluectl oq [options]",
		Flags:     flags,
		Action:    oqCommandAction,
		Meta:      meta,
	}).Build()
}
