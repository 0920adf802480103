// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package infra

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrInvalidJDBC is returned for connection strings ParseJDBC cannot read.
var ErrInvalidJDBC = errors.New("invalid JDBC URL")

var defaultPorts = map[string]int{
	"mysql":      3306,
	"postgresql": 5432,
	"redshift":   5439,
}

// JDBCURL is a parsed jdbc:<engine>://host[:port]/database string.
type JDBCURL struct {
	Engine   string
	Host     string
	Port     int
	Database string
}

// ParseJDBC parses a Glue JDBC_CONNECTION_URL.
func ParseJDBC(raw string) (JDBCURL, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "jdbc:")
	if !ok {
		return JDBCURL{}, fmt.Errorf("%w %q: missing jdbc: prefix", ErrInvalidJDBC, raw)
	}
	u, err := url.Parse(rest)
	if err != nil {
		return JDBCURL{}, fmt.Errorf("%w %q: %v", ErrInvalidJDBC, raw, err)
	}

	j := JDBCURL{
		Engine:   strings.ToLower(u.Scheme),
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
	}
	if j.Engine == "" || j.Host == "" {
		return JDBCURL{}, fmt.Errorf("%w %q: missing engine or host", ErrInvalidJDBC, raw)
	}
	if j.Database == "" {
		return JDBCURL{}, fmt.Errorf("%w %q: missing database", ErrInvalidJDBC, raw)
	}

	if p := u.Port(); p != "" {
		if j.Port, err = strconv.Atoi(p); err != nil {
			return JDBCURL{}, fmt.Errorf("%w %q: bad port %q", ErrInvalidJDBC, raw, p)
		}
	} else {
		j.Port = defaultPorts[j.Engine]
	}
	return j, nil
}

// String renders the URL back in jdbc: form.
func (j JDBCURL) String() string {
	return fmt.Sprintf("jdbc:%s://%s/%s", j.Engine, net.JoinHostPort(j.Host, strconv.Itoa(j.Port)), j.Database)
}

// DSN builds a go-sql-driver/mysql DSN. Only the mysql engine is supported.
func (j JDBCURL) DSN(user, password string) (string, error) {
	if j.Engine != "mysql" {
		return "", fmt.Errorf("%w: engine %s has no DSN support", ErrInvalidJDBC, j.Engine)
	}
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(j.Host, strconv.Itoa(j.Port))
	cfg.DBName = j.Database
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
