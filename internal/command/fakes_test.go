// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	athenasdk "github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	sdk "github.com/aws/aws-sdk-go-v2/service/glue"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gluectl/gluectl/internal/athena"
	"github.com/gluectl/gluectl/internal/aws"
	"github.com/gluectl/gluectl/internal/glue"
)

// fakeGlue serves canned Glue responses and records what was started.
type fakeGlue struct {
	tables  *sdk.GetTablesOutput
	runs    *sdk.GetJobRunsOutput
	job     *sdk.GetJobOutput
	crawler *sdk.GetCrawlerOutput

	tablesIn  *sdk.GetTablesInput
	startedJ  *sdk.StartJobRunInput
	startedCr string
}

func (f *fakeGlue) GetTables(_ context.Context, in *sdk.GetTablesInput, _ ...func(*sdk.Options)) (*sdk.GetTablesOutput, error) {
	f.tablesIn = in
	return f.tables, nil
}

func (f *fakeGlue) GetJobRuns(_ context.Context, _ *sdk.GetJobRunsInput, _ ...func(*sdk.Options)) (*sdk.GetJobRunsOutput, error) {
	return f.runs, nil
}

func (f *fakeGlue) GetJob(_ context.Context, _ *sdk.GetJobInput, _ ...func(*sdk.Options)) (*sdk.GetJobOutput, error) {
	return f.job, nil
}

func (f *fakeGlue) StartJobRun(_ context.Context, in *sdk.StartJobRunInput, _ ...func(*sdk.Options)) (*sdk.StartJobRunOutput, error) {
	f.startedJ = in
	return &sdk.StartJobRunOutput{JobRunId: awsv2.String("jr_new")}, nil
}

func (f *fakeGlue) StartCrawler(_ context.Context, in *sdk.StartCrawlerInput, _ ...func(*sdk.Options)) (*sdk.StartCrawlerOutput, error) {
	f.startedCr = awsv2.ToString(in.Name)
	return &sdk.StartCrawlerOutput{}, nil
}

func (f *fakeGlue) GetCrawler(_ context.Context, _ *sdk.GetCrawlerInput, _ ...func(*sdk.Options)) (*sdk.GetCrawlerOutput, error) {
	return f.crawler, nil
}

// fakeS3 serves ListObjectsV2 pages in order.
type fakeS3 struct {
	pages []*s3v2.ListObjectsV2Output
	calls int
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3v2.ListObjectsV2Input, _ ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error) {
	if f.calls >= len(f.pages) {
		return &s3v2.ListObjectsV2Output{}, nil
	}
	p := f.pages[f.calls]
	f.calls++
	return p, nil
}

// withFakeAWS swaps the AWS constructors for the duration of the test.
func withFakeAWS(t *testing.T, g glue.API, s s3v2.ListObjectsV2APIClient) {
	t.Helper()
	origLoad, origGlue, origS3 := loadAWSConfig, newGlueAPI, newS3API
	t.Cleanup(func() {
		loadAWSConfig, newGlueAPI, newS3API = origLoad, origGlue, origS3
	})

	loadAWSConfig = func(context.Context, ...aws.Option) (awsv2.Config, error) {
		return awsv2.Config{Region: "us-east-1"}, nil
	}
	newGlueAPI = func(awsv2.Config) glue.API { return g }
	newS3API = func(awsv2.Config) s3v2.ListObjectsV2APIClient { return s }
}

// fakeAthena succeeds every query at once and serves one result page.
type fakeAthena struct {
	columns []string
	rows    [][]string
	sql     []string
}

func (f *fakeAthena) StartQueryExecution(_ context.Context, in *athenasdk.StartQueryExecutionInput, _ ...func(*athenasdk.Options)) (*athenasdk.StartQueryExecutionOutput, error) {
	f.sql = append(f.sql, awsv2.ToString(in.QueryString))
	return &athenasdk.StartQueryExecutionOutput{QueryExecutionId: awsv2.String("qid")}, nil
}

func (f *fakeAthena) GetQueryExecution(_ context.Context, _ *athenasdk.GetQueryExecutionInput, _ ...func(*athenasdk.Options)) (*athenasdk.GetQueryExecutionOutput, error) {
	return &athenasdk.GetQueryExecutionOutput{QueryExecution: &athenatypes.QueryExecution{
		Status: &athenatypes.QueryExecutionStatus{State: athenatypes.QueryExecutionStateSucceeded},
	}}, nil
}

func (f *fakeAthena) GetQueryResults(_ context.Context, _ *athenasdk.GetQueryResultsInput, _ ...func(*athenasdk.Options)) (*athenasdk.GetQueryResultsOutput, error) {
	meta := &athenatypes.ResultSetMetadata{}
	header := athenatypes.Row{}
	for _, c := range f.columns {
		meta.ColumnInfo = append(meta.ColumnInfo, athenatypes.ColumnInfo{Name: awsv2.String(c), Type: awsv2.String("varchar")})
		header.Data = append(header.Data, athenatypes.Datum{VarCharValue: awsv2.String(c)})
	}
	rows := []athenatypes.Row{header}
	for _, r := range f.rows {
		var row athenatypes.Row
		for _, v := range r {
			row.Data = append(row.Data, athenatypes.Datum{VarCharValue: awsv2.String(v)})
		}
		rows = append(rows, row)
	}
	return &athenasdk.GetQueryResultsOutput{ResultSet: &athenatypes.ResultSet{ResultSetMetadata: meta, Rows: rows}}, nil
}

func (f *fakeAthena) StopQueryExecution(_ context.Context, _ *athenasdk.StopQueryExecutionInput, _ ...func(*athenasdk.Options)) (*athenasdk.StopQueryExecutionOutput, error) {
	return &athenasdk.StopQueryExecutionOutput{}, nil
}

// withFakeAthena swaps the Athena constructor for the duration of the test.
func withFakeAthena(t *testing.T, a athena.API) {
	t.Helper()
	withFakeAWS(t, nil, nil)
	orig := newAthenaAPI
	t.Cleanup(func() { newAthenaAPI = orig })
	newAthenaAPI = func(awsv2.Config) athena.API { return a }
}
