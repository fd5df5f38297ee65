// Package platform talks to the hosted platform's management API.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/logger"
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds the API endpoint and credentials.
type ClientConfig struct {
	BaseURL string
	Token   string
}

// Client implements every remote collaborator of the catalog, the selector
// and the directory form.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
	log        *logger.Logger
}

// NewClient creates a new platform client.
func NewClient(config ClientConfig, httpClient HTTPClient) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.supabase.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		log:        logger.WithComponent("platform"),
	}
}

// ListGitHubBranches returns the branches GitHub reports for a connection.
func (c *Client) ListGitHubBranches(ctx context.Context, connectionID int64) ([]domain.RemoteBranch, error) {
	path := fmt.Sprintf("/platform/integrations/github/branches/%d", connectionID)

	var branches []githubBranch
	if err := c.do(ctx, "list github branches", http.MethodGet, path, nil, &branches); err != nil {
		return nil, err
	}

	out := make([]domain.RemoteBranch, 0, len(branches))
	for _, b := range branches {
		out = append(out, domain.RemoteBranch{Name: b.Name})
	}
	return out, nil
}

// ListBranches returns the preview and production branches of a project.
func (c *Client) ListBranches(ctx context.Context, projectRef string) ([]domain.RegisteredBranch, error) {
	path := fmt.Sprintf("/v1/projects/%s/branches", url.PathEscape(projectRef))

	var branches []domain.RegisteredBranch
	if err := c.do(ctx, "list branches", http.MethodGet, path, nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// UpdateBranch re-points a registered branch at a git branch.
func (c *Client) UpdateBranch(ctx context.Context, update domain.BranchUpdate) (*domain.RegisteredBranch, error) {
	path := fmt.Sprintf("/v1/branches/%s", url.PathEscape(update.ID))
	body := branchUpdateBody{
		BranchName: update.BranchName,
		GitBranch:  update.GitBranch,
	}

	var branch domain.RegisteredBranch
	if err := c.do(ctx, "update branch", http.MethodPatch, path, body, &branch); err != nil {
		return nil, err
	}
	return &branch, nil
}

// UpdateConnection replaces the directory path of a GitHub connection.
func (c *Client) UpdateConnection(ctx context.Context, update domain.ConnectionUpdate) error {
	path := fmt.Sprintf("/platform/integrations/github/connections/%d", update.ConnectionID)
	body := connectionUpdateBody{
		OrganizationID: update.OrganizationID,
		Workdir:        update.Workdir,
	}
	return c.do(ctx, "update connection", http.MethodPatch, path, body, nil)
}

// GetConnection fetches a GitHub connection.
func (c *Client) GetConnection(ctx context.Context, connectionID int64) (*domain.Connection, error) {
	path := fmt.Sprintf("/platform/integrations/github/connections/%d", connectionID)

	var conn githubConnection
	if err := c.do(ctx, "get connection", http.MethodGet, path, nil, &conn); err != nil {
		return nil, err
	}
	return conn.toDomain(), nil
}

// do performs a request and decodes a JSON response into result when non-nil.
func (c *Client) do(ctx context.Context, operation, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.WithOperation(errors.Wrap(err, "failed to encode request"), operation)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.WithOperation(errors.Wrap(err, "failed to create request"), operation)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Request(method, path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithOperation(classifyTransportError(operation, err), operation)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Response(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.WithOperation(classifyStatus(operation, resp.StatusCode, respBody), operation)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return errors.WithOperation(errors.Wrapf(err, "failed to decode %s response", operation), operation)
	}
	return nil
}

func classifyTransportError(operation string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.ErrNetworkTimeout(operation, err)
	}
	return errors.ErrNetworkUnavailable(operation, err)
}

func classifyStatus(operation string, status int, body []byte) error {
	cause := fmt.Errorf("%s", apiMessage(body))
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrAuthenticationFailed(operation, cause).WithContext("status", status)
	case http.StatusNotFound:
		return errors.NewLinkErrorf(errors.ErrCodeNotFound, cause, "%s: not found", operation).
			WithContext("operation", operation).
			WithContext("status", status)
	default:
		return errors.ErrRemoteRequest(operation, status, cause)
	}
}

// apiMessage extracts {"message": "..."} from an error body, falling back to
// the raw body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	return msg
}
