// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package glue

// JobSpec is the comparable shape of an ETL job definition. Field names
// follow the aws_glue_job resource so a declared job and a live job diff
// key by key.
type JobSpec struct {
	Name             string            `json:"name"`
	Role             string            `json:"role_arn"`
	Command          JobCommand        `json:"command"`
	GlueVersion      string            `json:"glue_version"`
	Timeout          int               `json:"timeout"`
	NumberOfWorkers  int               `json:"number_of_workers"`
	WorkerType       string            `json:"worker_type"`
	MaxRetries       int               `json:"max_retries"`
	DefaultArguments map[string]string `json:"default_arguments"`
	Connections      []string          `json:"connections"`
}

// JobCommand is the job's script entry point.
type JobCommand struct {
	Name           string `json:"name"`
	ScriptLocation string `json:"script_location"`
	PythonVersion  string `json:"python_version"`
}
