// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package infra

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/gluectl/gluectl/internal/glue"
	"github.com/gluectl/gluectl/internal/log"
)

// Terraform resource types of the stack.
const (
	TypeCatalogDatabase = "aws_glue_catalog_database"
	TypeConnection      = "aws_glue_connection"
	TypeCrawler         = "aws_glue_crawler"
	TypeJob             = "aws_glue_job"
)

// ErrNoStack is returned when none of the Glue resource types is declared.
var ErrNoStack = errors.New("no Glue resources declared")

type CatalogDatabase struct {
	Address string
	Name    string
}

type Connection struct {
	Address  string
	Name     string
	Type     string
	URL      string
	Username string
	Password string
}

type Crawler struct {
	Address  string
	Name     string
	Database string
	Role     string
	S3Paths  []string
}

type Job struct {
	Address          string
	Name             string
	Role             string
	CommandName      string
	ScriptLocation   string
	PythonVersion    string
	GlueVersion      string
	Timeout          int
	NumberOfWorkers  int
	WorkerType       string
	MaxRetries       int
	DefaultArguments map[string]string
	Connections      []string
}

// Stack is the typed view over the declared Glue resources. Any member may be
// nil when the fragment does not declare it.
type Stack struct {
	CatalogDatabase *CatalogDatabase
	Connection      *Connection
	Crawler         *Crawler
	Job             *Job

	unresolved map[string][]string
}

// NewStack picks the Glue resources out of decls. When a type is declared
// more than once the first declaration wins.
func NewStack(decls []Declaration) (*Stack, error) {
	s := &Stack{unresolved: map[string][]string{}}
	found := false

	for _, d := range decls {
		a := d.Attributes
		switch d.Type {
		case TypeCatalogDatabase:
			if s.CatalogDatabase != nil {
				log.Warnf("ignoring %s, already have %s", d.Address, s.CatalogDatabase.Address)
				continue
			}
			s.CatalogDatabase = &CatalogDatabase{Address: d.Address, Name: str(a, "name")}
		case TypeConnection:
			if s.Connection != nil {
				log.Warnf("ignoring %s, already have %s", d.Address, s.Connection.Address)
				continue
			}
			props := stringMap(a, "connection_properties")
			s.Connection = &Connection{
				Address:  d.Address,
				Name:     str(a, "name"),
				Type:     str(a, "connection_type"),
				URL:      props["JDBC_CONNECTION_URL"],
				Username: props["USERNAME"],
				Password: props["PASSWORD"],
			}
		case TypeCrawler:
			if s.Crawler != nil {
				log.Warnf("ignoring %s, already have %s", d.Address, s.Crawler.Address)
				continue
			}
			c := &Crawler{
				Address:  d.Address,
				Name:     str(a, "name"),
				Database: str(a, "database_name"),
				Role:     str(a, "role"),
			}
			for _, t := range blocks(a, "s3_target") {
				c.S3Paths = append(c.S3Paths, str(t, "path"))
			}
			s.Crawler = c
		case TypeJob:
			if s.Job != nil {
				log.Warnf("ignoring %s, already have %s", d.Address, s.Job.Address)
				continue
			}
			j := &Job{
				Address:          d.Address,
				Name:             str(a, "name"),
				Role:             str(a, "role_arn"),
				GlueVersion:      str(a, "glue_version"),
				Timeout:          num(a, "timeout"),
				NumberOfWorkers:  num(a, "number_of_workers"),
				WorkerType:       str(a, "worker_type"),
				MaxRetries:       num(a, "max_retries"),
				DefaultArguments: stringMap(a, "default_arguments"),
				Connections:      stringList(a, "connections"),
			}
			if cmds := blocks(a, "command"); len(cmds) > 0 {
				j.CommandName = str(cmds[0], "name")
				j.ScriptLocation = str(cmds[0], "script_location")
				j.PythonVersion = str(cmds[0], "python_version")
			}
			s.Job = j
		default:
			continue
		}
		found = true
		if len(d.Unresolved) > 0 {
			s.unresolved[d.Address] = d.Unresolved
		}
	}

	if !found {
		return nil, ErrNoStack
	}
	return s, nil
}

// JobSpec renders the declared job for comparison with glue.Client.Job. Glue
// fills in the command name and python version when they are not declared,
// so the defaults are applied here too.
func (s *Stack) JobSpec() (glue.JobSpec, error) {
	if s.Job == nil {
		return glue.JobSpec{}, fmt.Errorf("%w: no %s", ErrNoStack, TypeJob)
	}
	j := s.Job

	spec := glue.JobSpec{
		Name:             j.Name,
		Role:             j.Role,
		GlueVersion:      j.GlueVersion,
		Timeout:          j.Timeout,
		NumberOfWorkers:  j.NumberOfWorkers,
		WorkerType:       j.WorkerType,
		MaxRetries:       j.MaxRetries,
		DefaultArguments: j.DefaultArguments,
		Command: glue.JobCommand{
			Name:           j.CommandName,
			ScriptLocation: j.ScriptLocation,
			PythonVersion:  j.PythonVersion,
		},
	}
	if spec.Command.Name == "" {
		spec.Command.Name = "glueetl"
	}
	if spec.Command.PythonVersion == "" {
		spec.Command.PythonVersion = "3"
	}
	if len(j.Connections) > 0 {
		spec.Connections = append([]string(nil), j.Connections...)
		sort.Strings(spec.Connections)
	}
	return spec, nil
}

// DSN builds a MySQL DSN from the declared connection.
func (s *Stack) DSN() (string, error) {
	if s.Connection == nil {
		return "", fmt.Errorf("%w: no %s", ErrNoStack, TypeConnection)
	}
	u, err := ParseJDBC(s.Connection.URL)
	if err != nil {
		return "", err
	}
	return u.DSN(s.Connection.Username, s.Connection.Password)
}

func str(a map[string]any, key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func num(a map[string]any, key string) int {
	switch v := a[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func stringMap(a map[string]any, key string) map[string]string {
	m, ok := a[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k := range m {
		out[k] = str(m, k)
	}
	return out
}

func stringList(a map[string]any, key string) []string {
	list, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, str(map[string]any{"v": v}, "v"))
	}
	return out
}

func blocks(a map[string]any, key string) []map[string]any {
	list, ok := a[key].([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
