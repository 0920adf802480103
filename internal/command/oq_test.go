// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goldPages() []*s3v2.ListObjectsV2Output {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	obj := func(key string, size int64) types.Object {
		return types.Object{Key: awsv2.String(key), Size: awsv2.Int64(size), LastModified: awsv2.Time(when)}
	}
	return []*s3v2.ListObjectsV2Output{
		{
			Contents: []types.Object{
				obj("gold/", 0),
				obj("gold/country=France/year=2004/part-0.parquet", 1024),
				obj("gold/country=France/year=2005/part-1.parquet", 2048),
			},
			IsTruncated:           awsv2.Bool(true),
			NextContinuationToken: awsv2.String("page-2"),
		},
		{
			Contents: []types.Object{
				obj("gold/country=USA/year=2004/part-2.parquet", 512),
				obj("gold/_SUCCESS", 0),
			},
		},
	}
}

func TestListGold(t *testing.T) {
	objects, err := listGold(context.Background(), &fakeS3{pages: goldPages()}, "s3://sales-lake/gold", 0)
	require.NoError(t, err)
	require.Len(t, objects, 4)

	assert.Equal(t, "country=France/year=2004/part-0.parquet", objects[0].Key)
	assert.Equal(t, "country=France/year=2004", objects[0].Partition)
	assert.Equal(t, "s3://sales-lake/gold/country=France/year=2004/part-0.parquet", objects[0].ID)
	assert.EqualValues(t, 1024, objects[0].Size)
	assert.Equal(t, "_SUCCESS", objects[3].Key)
	assert.Empty(t, objects[3].Partition)
}

func TestListGold_Limit(t *testing.T) {
	api := &fakeS3{pages: goldPages()}
	objects, err := listGold(context.Background(), api, "s3://sales-lake/gold/", 2)
	require.NoError(t, err)
	assert.Len(t, objects, 2)
	assert.Equal(t, 1, api.calls)
}

func TestListGold_BadPath(t *testing.T) {
	_, err := listGold(context.Background(), &fakeS3{}, "sales-lake/gold", 0)
	assert.Error(t, err)
}

func TestPartitionOf(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"part-0.parquet", ""},
		{"country=USA/part-0.parquet", "country=USA"},
		{"country=USA/year=2004/part-0.parquet", "country=USA/year=2004"},
		{"tmp/country=USA/part-0.parquet", "country=USA"},
		{"tmp/part-0.parquet", ""},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, partitionOf(tt.rel))
		})
	}
}

func TestOQ(t *testing.T) {
	withFakeAWS(t, nil, &fakeS3{pages: goldPages()})

	out, err := runApp(t, "oq", "--gold_path", "s3://sales-lake/gold", "-o", "json")
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.Len(t, rows, 4)
	assert.Equal(t, "country=USA/year=2004", rows[2]["partition"])
}

func TestOQ_NoGoldPath(t *testing.T) {
	withFakeAWS(t, nil, &fakeS3{})

	_, err := runApp(t, "oq")
	assert.ErrorIs(t, err, errGoldPathNotSet)
}
