// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package athena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/google/uuid"

	"github.com/gluectl/gluectl/internal/aws"
	"github.com/gluectl/gluectl/internal/cacheutil"
	"github.com/gluectl/gluectl/internal/log"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultTimeout      = 5 * time.Minute
	DefaultWorkgroup    = "primary"
)

var (
	ErrQueryFailed    = errors.New("athena query failed")
	ErrQueryCancelled = errors.New("athena query cancelled")
	ErrQueryTimeout   = errors.New("athena query timed out")
)

// API is the subset of the Athena client the Runner needs.
type API interface {
	StartQueryExecution(context.Context, *sdk.StartQueryExecutionInput, ...func(*sdk.Options)) (*sdk.StartQueryExecutionOutput, error)
	GetQueryExecution(context.Context, *sdk.GetQueryExecutionInput, ...func(*sdk.Options)) (*sdk.GetQueryExecutionOutput, error)
	GetQueryResults(context.Context, *sdk.GetQueryResultsInput, ...func(*sdk.Options)) (*sdk.GetQueryResultsOutput, error)
	StopQueryExecution(context.Context, *sdk.StopQueryExecutionInput, ...func(*sdk.Options)) (*sdk.StopQueryExecutionOutput, error)
}

// Runner executes queries in one database and workgroup.
type Runner struct {
	API            API
	Database       string
	Workgroup      string
	OutputLocation string
	PollInterval   time.Duration
	Timeout        time.Duration

	// NoCache skips the on-disk result cache. CacheMaxAge of zero means
	// entries never go stale on read; Purge handles eviction.
	NoCache     bool
	CacheMaxAge time.Duration
}

// Query runs sql and returns every result row. The header row Athena puts in
// front of SELECT results is dropped.
func (r *Runner) Query(ctx context.Context, sql string) (*ResultSet, error) {
	key := r.cacheKey(sql)
	if !r.NoCache {
		if rs, ok := r.cached(key); ok {
			return rs, nil
		}
	}

	id, err := r.start(ctx, sql)
	if err != nil {
		return nil, err
	}

	if err := r.wait(ctx, id); err != nil {
		return nil, err
	}

	rs, err := r.results(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Debugf("query %s: %d columns, %d rows", id, len(rs.Columns), len(rs.Rows))

	if !r.NoCache {
		if data, err := json.Marshal(rs); err == nil {
			if err := cacheutil.Write([]string{"athena"}, key, data); err != nil {
				log.Warnf("cache write failed: %v", err)
			}
		}
	}

	return rs, nil
}

func (r *Runner) start(ctx context.Context, sql string) (string, error) {
	in := &sdk.StartQueryExecutionInput{
		QueryString:        awsv2.String(sql),
		ClientRequestToken: awsv2.String(uuid.NewString()),
		WorkGroup:          awsv2.String(r.workgroup()),
	}
	if r.Database != "" {
		in.QueryExecutionContext = &types.QueryExecutionContext{Database: awsv2.String(r.Database)}
	}
	if r.OutputLocation != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: awsv2.String(r.OutputLocation)}
	}

	out, err := r.API.StartQueryExecution(ctx, in)
	if err != nil {
		return "", aws.Describe("start query execution", err)
	}
	id := awsv2.ToString(out.QueryExecutionId)
	log.Debugf("started query %s in %s/%s", id, r.workgroup(), r.Database)
	return id, nil
}

// wait polls until the execution reaches a terminal state. When ctx ends
// first the execution is stopped on a best-effort basis.
func (r *Runner) wait(ctx context.Context, id string) error {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	ticker := time.NewTicker(r.pollInterval())
	defer ticker.Stop()

	for {
		out, err := r.API.GetQueryExecution(ctx, &sdk.GetQueryExecutionInput{QueryExecutionId: awsv2.String(id)})
		if err != nil && ctx.Err() == nil {
			return aws.Describe("get query execution", err)
		}

		if err == nil && out.QueryExecution != nil && out.QueryExecution.Status != nil {
			st := out.QueryExecution.Status
			reason := awsv2.ToString(st.StateChangeReason)
			log.Tracef("query %s state %s", id, st.State)

			switch st.State {
			case types.QueryExecutionStateSucceeded:
				return nil
			case types.QueryExecutionStateFailed:
				return fmt.Errorf("%w: %s: %s", ErrQueryFailed, id, reason)
			case types.QueryExecutionStateCancelled:
				return fmt.Errorf("%w: %s: %s", ErrQueryCancelled, id, reason)
			}
		}

		select {
		case <-ctx.Done():
			r.stop(id)
			if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %s", ErrQueryTimeout, id, r.timeout())
			}
			return fmt.Errorf("%w: %s: %w", ErrQueryCancelled, id, parent.Err())
		case <-ticker.C:
		}
	}
}

func (r *Runner) stop(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := r.API.StopQueryExecution(ctx, &sdk.StopQueryExecutionInput{QueryExecutionId: awsv2.String(id)}); err != nil {
		log.Warnf("stop query %s: %v", id, err)
	}
}

func (r *Runner) results(ctx context.Context, id string) (*ResultSet, error) {
	rs := &ResultSet{}
	header := true

	p := sdk.NewGetQueryResultsPaginator(r.API, &sdk.GetQueryResultsInput{QueryExecutionId: awsv2.String(id)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, aws.Describe("get query results", err)
		}
		if page.ResultSet == nil {
			continue
		}

		if rs.Columns == nil && page.ResultSet.ResultSetMetadata != nil {
			for _, ci := range page.ResultSet.ResultSetMetadata.ColumnInfo {
				rs.Columns = append(rs.Columns, awsv2.ToString(ci.Name))
				rs.Types = append(rs.Types, awsv2.ToString(ci.Type))
			}
		}

		for _, row := range page.ResultSet.Rows {
			values := make([]string, len(row.Data))
			for i, d := range row.Data {
				values[i] = awsv2.ToString(d.VarCharValue)
			}
			if header {
				header = false
				if isHeader(values, rs.Columns) {
					continue
				}
			}
			rs.Rows = append(rs.Rows, values)
		}
	}

	return rs, nil
}

func isHeader(values, columns []string) bool {
	if len(values) != len(columns) || len(columns) == 0 {
		return false
	}
	for i := range values {
		if values[i] != columns[i] {
			return false
		}
	}
	return true
}

func (r *Runner) cacheKey(sql string) string {
	return r.workgroup() + "|" + r.Database + "|" + sql
}

func (r *Runner) cached(key string) (*ResultSet, bool) {
	entry, ok := cacheutil.Read([]string{"athena"}, key, r.CacheMaxAge)
	if !ok {
		return nil, false
	}
	var rs ResultSet
	if err := json.Unmarshal(entry.Data, &rs); err != nil {
		log.Warnf("ignoring corrupt cache entry %s: %v", entry.Path, err)
		return nil, false
	}
	log.Debugf("cache hit: %s age=%s", entry.EncodedKey, entry.Age())
	return &rs, true
}

func (r *Runner) workgroup() string {
	if r.Workgroup == "" {
		return DefaultWorkgroup
	}
	return r.Workgroup
}

func (r *Runner) pollInterval() time.Duration {
	if r.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return r.PollInterval
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}
