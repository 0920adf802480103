// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tfc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-tfe"

	"github.com/gluectl/gluectl/internal/log"
)

// DefaultHost is HCP Terraform.
const DefaultHost = "app.terraform.io"

const maxPageSize = 100

var (
	ErrOrganizationNotSet = errors.New("organization is not set")
	ErrWorkspaceNotSet    = errors.New("workspace is not set")
	ErrNoToken            = errors.New("no API token found")
)

// RunAPI is the part of tfe.Runs used here.
type RunAPI interface {
	List(ctx context.Context, workspaceID string, options *tfe.RunListOptions) (*tfe.RunList, error)
}

// WorkspaceAPI is the part of tfe.Workspaces used here.
type WorkspaceAPI interface {
	Read(ctx context.Context, organization string, workspace string) (*tfe.Workspace, error)
}

// Client lists runs on one host.
type Client struct {
	Host       string
	RunAPI     RunAPI
	Workspaces WorkspaceAPI
}

// RunsOptions narrows a run listing. Status is a comma separated list pushed
// to the server.
type RunsOptions struct {
	Limit  int
	Status string
}

// NewClient resolves a token for host and builds a go-tfe backed client.
// configured is the token from the config file, if any.
func NewClient(host, configured string) (*Client, error) {
	if host == "" {
		host = DefaultHost
	}
	token, err := Token(host, configured)
	if err != nil {
		return nil, err
	}

	c, err := tfe.NewClient(&tfe.Config{
		Address: "https://" + host,
		Token:   token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TFE client: %w", err)
	}

	return &Client{Host: host, RunAPI: c.Runs, Workspaces: c.Workspaces}, nil
}

// Token resolves the API token for host. The precedence is:
//  1. TF_TOKEN_<host> with dots as underscores
//  2. TF_TOKEN
//  3. the configured token
//  4. ~/.terraform.d/credentials.tfrc.json
func Token(host, configured string) (string, error) {
	if token := os.Getenv(hostEnvKey(host)); token != "" {
		return token, nil
	}
	if token := os.Getenv("TF_TOKEN"); token != "" {
		return token, nil
	}
	if configured != "" {
		return configured, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".terraform.d", "credentials.tfrc.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w for %s: set %s or TF_TOKEN", ErrNoToken, host, hostEnvKey(host))
		}
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds struct {
		Credentials map[string]struct {
			Token string `json:"token"`
		} `json:"credentials"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("failed to unmarshal credentials file: %w", err)
	}

	if cred, ok := creds.Credentials[host]; ok && cred.Token != "" {
		return cred.Token, nil
	}
	return "", fmt.Errorf("%w for %s: set %s or TF_TOKEN", ErrNoToken, host, hostEnvKey(host))
}

// Runs returns runs of org/workspace, newest first, at most opts.Limit of
// them when Limit is positive.
func (c *Client) Runs(ctx context.Context, org, workspace string, opts RunsOptions) ([]*tfe.Run, error) {
	if org == "" {
		return nil, ErrOrganizationNotSet
	}
	if workspace == "" {
		return nil, ErrWorkspaceNotSet
	}

	ectx := ErrorContext{Host: c.Host, Org: org, Workspace: workspace, Operation: "read workspace"}
	ws, err := c.Workspaces.Read(ctx, org, workspace)
	if err != nil {
		return nil, FriendlyTFE(err, ectx)
	}
	log.Debugf("workspace %s/%s: id=%s", org, workspace, ws.ID)

	pageSize := maxPageSize
	if opts.Limit > 0 && opts.Limit < pageSize {
		pageSize = opts.Limit
	}
	options := &tfe.RunListOptions{
		ListOptions: tfe.ListOptions{PageNumber: 1, PageSize: pageSize},
		Status:      strings.ReplaceAll(opts.Status, " ", ""),
	}

	ectx.Operation = "list runs"
	var runs []*tfe.Run
	for {
		page, err := c.RunAPI.List(ctx, ws.ID, options)
		if err != nil {
			return nil, FriendlyTFE(err, ectx)
		}
		runs = append(runs, page.Items...)

		if opts.Limit > 0 && len(runs) >= opts.Limit {
			return runs[:opts.Limit], nil
		}
		if page.Pagination == nil || page.NextPage == 0 {
			return runs, nil
		}
		options.PageNumber = page.NextPage
	}
}
