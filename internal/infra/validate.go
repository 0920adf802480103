// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package infra

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gluectl/gluectl/internal/aws"
)

const (
	SeverityError = "error"
	SeverityWarn  = "warn"
)

// RequiredArguments are the job default arguments the ETL script reads.
var RequiredArguments = []string{
	"--enable-job-insights",
	"--job-language",
	"--glue_connection",
	"--glue_database",
	"--target_path",
}

// WorkerTypes are the worker types Glue accepts.
var WorkerTypes = []string{"Standard", "G.025X", "G.1X", "G.2X", "G.4X", "G.8X", "G.12X", "G.16X", "R.1X", "R.2X", "R.4X", "R.8X", "Z.2X"}

// Finding is one wiring problem.
type Finding struct {
	ID       string `jsonapi:"primary,findings"`
	Severity string `jsonapi:"attr,severity"`
	Address  string `jsonapi:"attr,address"`
	Message  string `jsonapi:"attr,message"`
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks the stack's wiring. An empty result means the job, its
// connection, the catalog database and the crawler agree with each other.
func (s *Stack) Validate() []Finding {
	var out []Finding
	add := func(sev, addr, format string, args ...any) {
		out = append(out, Finding{
			ID:       strconv.Itoa(len(out) + 1),
			Severity: sev,
			Address:  addr,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if s.CatalogDatabase == nil {
		add(SeverityError, TypeCatalogDatabase, "catalog database not declared")
	}
	if s.Connection == nil {
		add(SeverityError, TypeConnection, "connection not declared")
	}
	if s.Crawler == nil {
		add(SeverityError, TypeCrawler, "crawler not declared")
	}
	if s.Job == nil {
		add(SeverityError, TypeJob, "job not declared")
	}

	for _, addr := range s.unresolvedAddresses() {
		for _, path := range s.unresolved[addr] {
			add(SeverityWarn, addr, "%s cannot be resolved offline", path)
		}
	}

	if c := s.Connection; c != nil {
		if c.Type != "" && !strings.EqualFold(c.Type, "JDBC") {
			add(SeverityWarn, c.Address, "connection_type is %s, the ETL job reads over JDBC", c.Type)
		}
		if _, err := ParseJDBC(c.URL); err != nil {
			add(SeverityError, c.Address, "%v", err)
		}
	}

	if c := s.Crawler; c != nil {
		if len(c.S3Paths) == 0 {
			add(SeverityError, c.Address, "no s3_target declared")
		}
		for _, p := range c.S3Paths {
			if _, _, err := aws.ParseS3URL(p); err != nil {
				add(SeverityError, c.Address, "s3_target path %q is not an s3:// URL", p)
			}
		}
		if db := s.CatalogDatabase; db != nil && c.Database != db.Name {
			add(SeverityError, c.Address, "database_name %q does not match catalog database %q", c.Database, db.Name)
		}
	}

	if j := s.Job; j != nil {
		s.validateJob(j, add)
	}

	return out
}

func (s *Stack) validateJob(j *Job, add func(sev, addr, format string, args ...any)) {
	for _, k := range RequiredArguments {
		if j.DefaultArguments[k] == "" {
			add(SeverityError, j.Address, "default_arguments missing %s", k)
		}
	}
	if lang := j.DefaultArguments["--job-language"]; lang != "" && lang != "python" && lang != "scala" {
		add(SeverityWarn, j.Address, "--job-language %q is neither python nor scala", lang)
	}

	if !slices.Contains(WorkerTypes, j.WorkerType) {
		add(SeverityError, j.Address, "unknown worker_type %q", j.WorkerType)
	}
	if j.Timeout <= 0 {
		add(SeverityError, j.Address, "timeout must be a positive number of minutes, got %d", j.Timeout)
	}
	if j.NumberOfWorkers <= 0 {
		add(SeverityError, j.Address, "number_of_workers must be positive, got %d", j.NumberOfWorkers)
	} else if j.NumberOfWorkers < 2 && j.WorkerType != "Standard" {
		add(SeverityWarn, j.Address, "%s jobs need at least 2 workers, got %d", j.WorkerType, j.NumberOfWorkers)
	}
	if _, _, err := aws.ParseS3URL(j.ScriptLocation); err != nil {
		add(SeverityError, j.Address, "script_location %q is not an s3:// URL", j.ScriptLocation)
	}

	if db := s.CatalogDatabase; db != nil {
		if got := j.DefaultArguments["--glue_database"]; got != "" && got != db.Name {
			add(SeverityError, j.Address, "--glue_database %q does not match catalog database %q", got, db.Name)
		}
	}

	if c := s.Connection; c != nil {
		if got := j.DefaultArguments["--glue_connection"]; got != "" && got != c.Name {
			add(SeverityError, j.Address, "--glue_connection %q does not match connection %q", got, c.Name)
		}
		if !slices.Contains(j.Connections, c.Name) {
			add(SeverityWarn, j.Address, "connections does not include %q", c.Name)
		}
	}

	if c := s.Crawler; c != nil {
		if target := j.DefaultArguments["--target_path"]; target != "" && !underAny(target, c.S3Paths) {
			add(SeverityError, j.Address, "--target_path %q is not under the crawler path %s", target, strings.Join(c.S3Paths, ", "))
		}
	}
}

func (s *Stack) unresolvedAddresses() []string {
	var addrs []string
	for _, a := range []string{
		addressOf(s.CatalogDatabase),
		addressOf(s.Connection),
		addressOf(s.Crawler),
		addressOf(s.Job),
	} {
		if a != "" && len(s.unresolved[a]) > 0 {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

func addressOf(v any) string {
	switch r := v.(type) {
	case *CatalogDatabase:
		if r != nil {
			return r.Address
		}
	case *Connection:
		if r != nil {
			return r.Address
		}
	case *Crawler:
		if r != nil {
			return r.Address
		}
	case *Job:
		if r != nil {
			return r.Address
		}
	}
	return ""
}

// underAny reports whether the s3 URL path lies at or below one of bases.
func underAny(path string, bases []string) bool {
	pb, pk, err := aws.ParseS3URL(path)
	if err != nil {
		return false
	}
	pk = strings.TrimSuffix(pk, "/")
	for _, base := range bases {
		bb, bk, err := aws.ParseS3URL(base)
		if err != nil || bb != pb {
			continue
		}
		bk = strings.TrimSuffix(bk, "/")
		if bk == "" || pk == bk || strings.HasPrefix(pk, bk+"/") {
			return true
		}
	}
	return false
}
