// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stackDir = "../infra/testdata/stack"

func TestIQ_List(t *testing.T) {
	out, err := runApp(t, "iq", stackDir, "-o", "json")
	require.NoError(t, err)

	var addrs []string
	for _, r := range decodeRows(t, out) {
		addrs = append(addrs, r["address"].(string))
	}
	assert.Contains(t, addrs, "aws_glue_job.etl")
	assert.Contains(t, addrs, "aws_glue_connection.mysql")
	assert.Contains(t, addrs, "aws_glue_crawler.gold")
	assert.Contains(t, addrs, "aws_glue_catalog_database.sales")
}

func TestIQ_ArgsRedacted(t *testing.T) {
	out, err := runApp(t, "iq", stackDir, "--var", "db_password=hunter2",
		"-a", "args", "-f", "address=aws_glue_connection.mysql", "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")
}

func TestIQ_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"clean stack", []string{stackDir, "--var", "db_password=secret"}, nil},
		{"missing password only warns", []string{stackDir}, nil},
		{"miswired", []string{"../infra/testdata/miswired"}, errValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"iq"}, tt.args...)
			args = append(args, "--validate", "-o", "json")
			out, err := runApp(t, args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				rows := decodeRows(t, out)
				assert.NotEmpty(t, rows)
				return
			}
			require.NoError(t, err)
			for _, r := range decodeRows(t, out) {
				assert.NotEqual(t, "error", r["severity"], r["message"])
			}
		})
	}
}

func TestIQ_BadVar(t *testing.T) {
	_, err := runApp(t, "iq", stackDir, "--var", "db_password")
	assert.Error(t, err)
}

func TestIQ_Drift(t *testing.T) {
	g := &fakeGlue{job: &sdk.GetJobOutput{Job: &types.Job{
		Name:            awsv2.String("sales-etl"),
		GlueVersion:     awsv2.String("4.0"),
		Timeout:         awsv2.Int32(5),
		NumberOfWorkers: awsv2.Int32(10),
		WorkerType:      types.WorkerTypeG2x,
		Command: &types.JobCommand{
			Name:           awsv2.String("glueetl"),
			ScriptLocation: awsv2.String("s3://sales-lake/scripts/sales_etl.py"),
			PythonVersion:  awsv2.String("3"),
		},
	}}}
	withFakeAWS(t, g, nil)

	out, err := runApp(t, "iq", stackDir, "--drift")
	assert.ErrorIs(t, err, errDrift)
	assert.Contains(t, out, "worker_type")
}
