// Package crm is a read-only client for the amoCRM v4 REST API. Every call passes
// through a shared Limiter; list endpoints are collected page by page and stop
// early, without failing, when the API errors.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	// MaxPageSize is the largest page amoCRM serves for /leads
	MaxPageSize = 250

	defaultContactBatchSize  = 50
	defaultContactBatchPause = 100 * time.Millisecond
	defaultTimeout           = 60 * time.Second
	maxErrorBody             = 512
)

// StatusError is returned for non-2xx answers
type StatusError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crm: %s returned %d: %s", e.Path, e.StatusCode, e.Body)
}

// Client issues throttled GET requests against one amoCRM account
type Client struct {
	httpClient        *http.Client
	baseURL           string
	token             string
	limiter           *Limiter
	logger            *zap.Logger
	pageSize          int
	contactBatchSize  int
	contactBatchPause time.Duration
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPageSize sets the /leads page size, capped at MaxPageSize
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = min(n, MaxPageSize)
		}
	}
}

// WithContactBatch sets how many contact ids are requested per call and the
// pause between two such calls
func WithContactBatch(size int, pause time.Duration) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.contactBatchSize = size
		}
		if pause >= 0 {
			c.contactBatchPause = pause
		}
	}
}

// NewClient creates a client for baseURL (".../api/v4") authorized with token
func NewClient(baseURL, token string, limiter *Limiter, logger *zap.Logger, opts ...ClientOption) *Client {
	if limiter == nil {
		limiter = NewLimiter(0)
	}
	c := &Client{
		httpClient:        &http.Client{Timeout: defaultTimeout},
		baseURL:           baseURL,
		token:             token,
		limiter:           limiter,
		logger:            logger,
		pageSize:          MaxPageSize,
		contactBatchSize:  defaultContactBatchSize,
		contactBatchPause: defaultContactBatchPause,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs one GET and decodes the JSON body into out. A 204 answer leaves
// out untouched. The call is not retried.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return eris.Wrap(err, "crm: rate limit")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "crm: build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "crm: GET %s", path)
	}
	defer resp.Body.Close()

	c.logger.Debug("crm request",
		zap.String("path", path),
		zap.String("page", query.Get("page")),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return eris.Wrap(&StatusError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}, "crm: unexpected status")
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return eris.Wrapf(err, "crm: decode %s", path)
	}
	return nil
}

type pipelinesResponse struct {
	Embedded struct {
		Pipelines []domain.Pipeline `json:"pipelines"`
	} `json:"_embedded"`
}

type usersResponse struct {
	Embedded struct {
		Users []domain.User `json:"users"`
	} `json:"_embedded"`
}

// ListPipelines returns the lead pipelines of the account
func (c *Client) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	var resp pipelinesResponse
	if err := c.Get(ctx, "/leads/pipelines", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Embedded.Pipelines, nil
}

// GetPipeline returns one pipeline with its stages
func (c *Client) GetPipeline(ctx context.Context, id int64) (*domain.Pipeline, error) {
	var p domain.Pipeline
	if err := c.Get(ctx, "/leads/pipelines/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListUsers returns the users of the account
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(MaxPageSize))
	var resp usersResponse
	if err := c.Get(ctx, "/users", q, &resp); err != nil {
		return nil, err
	}
	return resp.Embedded.Users, nil
}

// Ping checks that the account answers with the configured token
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "/leads/pipelines", nil, nil)
}
