// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package glue

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/gluectl/gluectl/internal/aws"
	"github.com/gluectl/gluectl/internal/log"
)

var (
	ErrDatabaseNotSet = errors.New("catalog database not set, use --database or the database config key")
	ErrJobNotSet      = errors.New("job not set, use --job or the job config key")
	ErrCrawlerNotSet  = errors.New("crawler not set, use --crawler or the crawler config key")
	ErrNotFound       = errors.New("not found")
)

// API is the subset of the Glue client used here.
type API interface {
	GetTables(context.Context, *sdk.GetTablesInput, ...func(*sdk.Options)) (*sdk.GetTablesOutput, error)
	GetJobRuns(context.Context, *sdk.GetJobRunsInput, ...func(*sdk.Options)) (*sdk.GetJobRunsOutput, error)
	GetJob(context.Context, *sdk.GetJobInput, ...func(*sdk.Options)) (*sdk.GetJobOutput, error)
	StartJobRun(context.Context, *sdk.StartJobRunInput, ...func(*sdk.Options)) (*sdk.StartJobRunOutput, error)
	StartCrawler(context.Context, *sdk.StartCrawlerInput, ...func(*sdk.Options)) (*sdk.StartCrawlerOutput, error)
	GetCrawler(context.Context, *sdk.GetCrawlerInput, ...func(*sdk.Options)) (*sdk.GetCrawlerOutput, error)
}

// Client wraps an API.
type Client struct {
	API API
}

// Table is one catalog table.
type Table struct {
	ID             string    `jsonapi:"primary,tables"`
	Name           string    `jsonapi:"attr,name"`
	Location       string    `jsonapi:"attr,location"`
	Classification string    `jsonapi:"attr,classification"`
	Columns        int       `jsonapi:"attr,columns"`
	PartitionKeys  string    `jsonapi:"attr,partition-keys"`
	TableType      string    `jsonapi:"attr,table-type"`
	UpdatedAt      time.Time `jsonapi:"attr,updated-at,iso8601"`
}

// JobRun is one run of an ETL job.
type JobRun struct {
	ID            string    `jsonapi:"primary,job-runs"`
	State         string    `jsonapi:"attr,state"`
	Attempt       int       `jsonapi:"attr,attempt"`
	StartedOn     time.Time `jsonapi:"attr,started-on,iso8601"`
	CompletedOn   time.Time `jsonapi:"attr,completed-on,iso8601"`
	ExecutionTime int       `jsonapi:"attr,execution-time"`
	Workers       int       `jsonapi:"attr,workers"`
	WorkerType    string    `jsonapi:"attr,worker-type"`
	Error         string    `jsonapi:"attr,error"`
}

// CrawlerStatus is the crawler's current state and last crawl outcome.
type CrawlerStatus struct {
	ID         string    `jsonapi:"primary,crawlers"`
	State      string    `jsonapi:"attr,state"`
	LastStatus string    `jsonapi:"attr,last-status"`
	LastStart  time.Time `jsonapi:"attr,last-start,iso8601"`
	LastError  string    `jsonapi:"attr,last-error"`
	Database   string    `jsonapi:"attr,database"`
}

// JobRunsOptions narrows JobRuns. Limit <= 0 means no limit; State filters
// on the run state before the limit applies.
type JobRunsOptions struct {
	Limit int
	State string
}

// Tables lists every table in database. A non-empty expression is passed to
// Glue as its table name pattern.
func (c *Client) Tables(ctx context.Context, database, expression string) ([]Table, error) {
	if database == "" {
		return nil, ErrDatabaseNotSet
	}

	in := &sdk.GetTablesInput{DatabaseName: awsv2.String(database)}
	if expression != "" {
		in.Expression = awsv2.String(expression)
	}

	var tables []Table
	p := sdk.NewGetTablesPaginator(c.API, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, aws.Describe("get tables", err)
		}
		for _, t := range page.TableList {
			tables = append(tables, tableOf(t))
		}
	}
	log.Debugf("tables in %s: %d", database, len(tables))
	return tables, nil
}

func tableOf(t types.Table) Table {
	name := awsv2.ToString(t.Name)
	out := Table{
		ID:             name,
		Name:           name,
		Classification: t.Parameters["classification"],
		TableType:      awsv2.ToString(t.TableType),
		UpdatedAt:      awsv2.ToTime(t.UpdateTime),
	}
	if sd := t.StorageDescriptor; sd != nil {
		out.Location = awsv2.ToString(sd.Location)
		out.Columns = len(sd.Columns)
	}
	keys := make([]string, 0, len(t.PartitionKeys))
	for _, k := range t.PartitionKeys {
		keys = append(keys, awsv2.ToString(k.Name))
	}
	out.PartitionKeys = strings.Join(keys, ",")
	return out
}

// JobRuns returns runs of job, newest first as Glue returns them.
func (c *Client) JobRuns(ctx context.Context, job string, opts JobRunsOptions) ([]JobRun, error) {
	if job == "" {
		return nil, ErrJobNotSet
	}

	var runs []JobRun
	p := sdk.NewGetJobRunsPaginator(c.API, &sdk.GetJobRunsInput{JobName: awsv2.String(job)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, aws.Describe("get job runs", err)
		}
		for _, r := range page.JobRuns {
			if opts.State != "" && !strings.EqualFold(string(r.JobRunState), opts.State) {
				continue
			}
			runs = append(runs, jobRunOf(r))
			if opts.Limit > 0 && len(runs) >= opts.Limit {
				return runs, nil
			}
		}
	}
	return runs, nil
}

func jobRunOf(r types.JobRun) JobRun {
	return JobRun{
		ID:            awsv2.ToString(r.Id),
		State:         string(r.JobRunState),
		Attempt:       int(r.Attempt),
		StartedOn:     awsv2.ToTime(r.StartedOn),
		CompletedOn:   awsv2.ToTime(r.CompletedOn),
		ExecutionTime: int(r.ExecutionTime),
		Workers:       int(awsv2.ToInt32(r.NumberOfWorkers)),
		WorkerType:    string(r.WorkerType),
		Error:         awsv2.ToString(r.ErrorMessage),
	}
}

// Job returns the live definition of job normalized to a JobSpec.
func (c *Client) Job(ctx context.Context, job string) (JobSpec, error) {
	if job == "" {
		return JobSpec{}, ErrJobNotSet
	}
	out, err := c.API.GetJob(ctx, &sdk.GetJobInput{JobName: awsv2.String(job)})
	if err != nil {
		var nf *types.EntityNotFoundException
		if errors.As(err, &nf) {
			return JobSpec{}, errors.Join(ErrNotFound, aws.Describe("get job", err))
		}
		return JobSpec{}, aws.Describe("get job", err)
	}
	if out.Job == nil {
		return JobSpec{}, ErrNotFound
	}
	return jobSpecOf(*out.Job), nil
}

func jobSpecOf(j types.Job) JobSpec {
	spec := JobSpec{
		Name:             awsv2.ToString(j.Name),
		Role:             awsv2.ToString(j.Role),
		GlueVersion:      awsv2.ToString(j.GlueVersion),
		Timeout:          int(awsv2.ToInt32(j.Timeout)),
		NumberOfWorkers:  int(awsv2.ToInt32(j.NumberOfWorkers)),
		WorkerType:       string(j.WorkerType),
		MaxRetries:       int(j.MaxRetries),
		DefaultArguments: j.DefaultArguments,
	}
	if j.Command != nil {
		spec.Command = JobCommand{
			Name:           awsv2.ToString(j.Command.Name),
			ScriptLocation: awsv2.ToString(j.Command.ScriptLocation),
			PythonVersion:  awsv2.ToString(j.Command.PythonVersion),
		}
	}
	if j.Connections != nil {
		spec.Connections = append([]string(nil), j.Connections.Connections...)
		sort.Strings(spec.Connections)
	}
	return spec
}

// StartJobRun starts job, overriding its default arguments with args, and
// returns the new run id.
func (c *Client) StartJobRun(ctx context.Context, job string, args map[string]string) (string, error) {
	if job == "" {
		return "", ErrJobNotSet
	}
	in := &sdk.StartJobRunInput{JobName: awsv2.String(job)}
	if len(args) > 0 {
		in.Arguments = args
	}
	out, err := c.API.StartJobRun(ctx, in)
	if err != nil {
		return "", aws.Describe("start job run", err)
	}
	id := awsv2.ToString(out.JobRunId)
	log.Infof("started job run %s for %s", id, job)
	return id, nil
}

// StartCrawler starts the named crawler.
func (c *Client) StartCrawler(ctx context.Context, name string) error {
	if name == "" {
		return ErrCrawlerNotSet
	}
	if _, err := c.API.StartCrawler(ctx, &sdk.StartCrawlerInput{Name: awsv2.String(name)}); err != nil {
		return aws.Describe("start crawler", err)
	}
	log.Infof("started crawler %s", name)
	return nil
}

// CrawlerState reports the crawler's state and its last crawl.
func (c *Client) CrawlerState(ctx context.Context, name string) (CrawlerStatus, error) {
	if name == "" {
		return CrawlerStatus{}, ErrCrawlerNotSet
	}
	out, err := c.API.GetCrawler(ctx, &sdk.GetCrawlerInput{Name: awsv2.String(name)})
	if err != nil {
		return CrawlerStatus{}, aws.Describe("get crawler", err)
	}
	if out.Crawler == nil {
		return CrawlerStatus{}, ErrNotFound
	}

	cr := out.Crawler
	st := CrawlerStatus{
		ID:       awsv2.ToString(cr.Name),
		State:    string(cr.State),
		Database: awsv2.ToString(cr.DatabaseName),
	}
	if lc := cr.LastCrawl; lc != nil {
		st.LastStatus = string(lc.Status)
		st.LastStart = awsv2.ToTime(lc.StartTime)
		st.LastError = awsv2.ToString(lc.ErrorMessage)
	}
	return st, nil
}
