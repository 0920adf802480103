// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package athena

import (
	"context"
	"errors"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeAPI serves scripted states and result pages.
type fakeAPI struct {
	states  []types.QueryExecutionState
	reason  string
	pages   []*sdk.GetQueryResultsOutput
	startIn *sdk.StartQueryExecutionInput

	starts, polls, stops int
	startErr             error
}

func (f *fakeAPI) StartQueryExecution(_ context.Context, in *sdk.StartQueryExecutionInput, _ ...func(*sdk.Options)) (*sdk.StartQueryExecutionOutput, error) {
	f.starts++
	f.startIn = in
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &sdk.StartQueryExecutionOutput{QueryExecutionId: awsv2.String("qid-1")}, nil
}

func (f *fakeAPI) GetQueryExecution(_ context.Context, _ *sdk.GetQueryExecutionInput, _ ...func(*sdk.Options)) (*sdk.GetQueryExecutionOutput, error) {
	state := f.states[len(f.states)-1]
	if f.polls < len(f.states) {
		state = f.states[f.polls]
	}
	f.polls++
	return &sdk.GetQueryExecutionOutput{QueryExecution: &types.QueryExecution{
		Status: &types.QueryExecutionStatus{State: state, StateChangeReason: awsv2.String(f.reason)},
	}}, nil
}

func (f *fakeAPI) GetQueryResults(_ context.Context, in *sdk.GetQueryResultsInput, _ ...func(*sdk.Options)) (*sdk.GetQueryResultsOutput, error) {
	idx := 0
	if in.NextToken != nil {
		switch *in.NextToken {
		case "page-2":
			idx = 1
		default:
			return nil, errors.New("unexpected token")
		}
	}
	return f.pages[idx], nil
}

func (f *fakeAPI) StopQueryExecution(_ context.Context, _ *sdk.StopQueryExecutionInput, _ ...func(*sdk.Options)) (*sdk.StopQueryExecutionOutput, error) {
	f.stops++
	return &sdk.StopQueryExecutionOutput{}, nil
}

func row(values ...string) types.Row {
	var r types.Row
	for _, v := range values {
		r.Data = append(r.Data, types.Datum{VarCharValue: awsv2.String(v)})
	}
	return r
}

func twoPages() []*sdk.GetQueryResultsOutput {
	meta := &types.ResultSetMetadata{ColumnInfo: []types.ColumnInfo{
		{Name: awsv2.String("productcode"), Type: awsv2.String("varchar")},
		{Name: awsv2.String("amount"), Type: awsv2.String("double")},
	}}
	return []*sdk.GetQueryResultsOutput{
		{
			NextToken: awsv2.String("page-2"),
			ResultSet: &types.ResultSet{
				ResultSetMetadata: meta,
				Rows:              []types.Row{row("productcode", "amount"), row("S10_1678", "100.5")},
			},
		},
		{
			ResultSet: &types.ResultSet{
				ResultSetMetadata: meta,
				Rows:              []types.Row{row("S10_1949", "42")},
			},
		},
	}
}

func newRunner(api API) *Runner {
	return &Runner{
		API:          api,
		Database:     "sales",
		Workgroup:    "analytics",
		PollInterval: time.Millisecond,
		Timeout:      time.Second,
		NoCache:      true,
	}
}

func TestQuery_Succeeds(t *testing.T) {
	api := &fakeAPI{
		states: []types.QueryExecutionState{types.QueryExecutionStateQueued, types.QueryExecutionStateRunning, types.QueryExecutionStateSucceeded},
		pages:  twoPages(),
	}
	r := newRunner(api)
	r.OutputLocation = "s3://results/"

	rs, err := r.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)

	assert.Equal(t, []string{"productcode", "amount"}, rs.Columns)
	assert.Equal(t, [][]string{{"S10_1678", "100.5"}, {"S10_1949", "42"}}, rs.Rows)
	assert.Equal(t, 3, api.polls)

	in := api.startIn
	assert.Equal(t, "SELECT 1", awsv2.ToString(in.QueryString))
	assert.Equal(t, "analytics", awsv2.ToString(in.WorkGroup))
	assert.Equal(t, "sales", awsv2.ToString(in.QueryExecutionContext.Database))
	assert.Equal(t, "s3://results/", awsv2.ToString(in.ResultConfiguration.OutputLocation))
	assert.Len(t, awsv2.ToString(in.ClientRequestToken), 36)
}

func TestQuery_TerminalFailures(t *testing.T) {
	tests := []struct {
		name    string
		state   types.QueryExecutionState
		wantErr error
	}{
		{"failed", types.QueryExecutionStateFailed, ErrQueryFailed},
		{"cancelled", types.QueryExecutionStateCancelled, ErrQueryCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{states: []types.QueryExecutionState{tt.state}, reason: "TABLE_NOT_FOUND: fact_orders"}
			_, err := newRunner(api).Query(context.Background(), "SELECT * FROM fact_orders")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, "TABLE_NOT_FOUND")
		})
	}
}

func TestQuery_Timeout(t *testing.T) {
	api := &fakeAPI{states: []types.QueryExecutionState{types.QueryExecutionStateRunning}}
	r := newRunner(api)
	r.Timeout = 20 * time.Millisecond

	_, err := r.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrQueryTimeout)
	assert.Equal(t, 1, api.stops)
}

func TestQuery_ContextCancelled(t *testing.T) {
	api := &fakeAPI{states: []types.QueryExecutionState{types.QueryExecutionStateRunning}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newRunner(api).Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrQueryCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, api.stops)
}

func TestQuery_StartError(t *testing.T) {
	api := &fakeAPI{startErr: errors.New("denied")}
	_, err := newRunner(api).Query(context.Background(), "SELECT 1")
	assert.EqualError(t, err, "start query execution: denied")
}

func TestQuery_Cache(t *testing.T) {
	t.Setenv("GLUECTL_CACHE_DIR", t.TempDir())
	t.Setenv("GLUECTL_CACHE", "")

	api := &fakeAPI{states: []types.QueryExecutionState{types.QueryExecutionStateSucceeded}, pages: twoPages()}
	r := newRunner(api)
	r.NoCache = false

	first, err := r.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	second, err := r.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)

	assert.Equal(t, 1, api.starts)
	assert.Equal(t, first, second)

	r.Database = "other"
	_, err = r.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, 2, api.starts)
}

func TestResultSet_MapsAndPayload(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"country", "orders", "amount", "paid"},
		Types:   []string{"varchar", "bigint", "decimal(10,2)", "boolean"},
		Rows: [][]string{
			{"USA", "12", "1234.50", "true"},
			{"France", "", "n/a", "maybe"},
		},
	}

	maps := rs.Maps()
	require.Len(t, maps, 2)
	assert.Equal(t, "France", maps[1]["country"])

	b, err := rs.Payload()
	require.NoError(t, err)

	doc := gjson.ParseBytes(b)
	assert.Equal(t, "athena-rows", doc.Get("data.0.type").String())
	assert.Equal(t, "2", doc.Get("data.1.id").String())
	assert.Equal(t, gjson.Number, doc.Get("data.0.attributes.orders").Type)
	assert.Equal(t, 1234.5, doc.Get("data.0.attributes.amount").Float())
	assert.Equal(t, gjson.True, doc.Get("data.0.attributes.paid").Type)
	assert.Equal(t, gjson.String, doc.Get("data.1.attributes.amount").Type)
	assert.Equal(t, "", doc.Get("data.1.attributes.orders").String())
}
