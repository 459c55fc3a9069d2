// Package backend provides the HTTP client for the ETL analytics backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1024 * 1024

const userAgent = "etlwatch"

// Client talks to the analytics backend REST API.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets a bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// JobHistory fetches one page of the job history, newest first.
func (c *Client) JobHistory(ctx context.Context, q HistoryQuery) (*JobPage, error) {
	params := url.Values{}
	setString(params, "app_id", q.AppID)
	setInt(params, "page", q.Page)
	setInt(params, "limit", q.Limit)

	page := &JobPage{}
	if err := c.do(ctx, http.MethodGet, "/monitor/history", params, nil, page); err != nil {
		return nil, fmt.Errorf("fetching job history: %w", err)
	}
	if page.Data == nil {
		page.Data = []JobRecord{}
	}
	return page, nil
}

// DeleteHistory removes one job history entry.
func (c *Client) DeleteHistory(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/monitor/history/"+strconv.FormatInt(id, 10), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting history %d: %w", id, err)
	}
	return nil
}

// PurgeHistory removes the whole job history.
func (c *Client) PurgeHistory(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/monitor/purge", nil, nil, nil); err != nil {
		return fmt.Errorf("purging history: %w", err)
	}
	return nil
}

// StopJob asks the backend to cancel a running job.
func (c *Client) StopJob(ctx context.Context, historyID int64) error {
	if err := c.do(ctx, http.MethodPost, "/etl/stop/"+strconv.FormatInt(historyID, 10), nil, struct{}{}, nil); err != nil {
		return fmt.Errorf("stopping job %d: %w", historyID, err)
	}
	return nil
}

// RunETL triggers a run for an app. The returned error matches ErrBusy
// when the backend is already processing another job.
func (c *Client) RunETL(ctx context.Context, appID int64, req RunRequest) (*RunResult, error) {
	if req.RunType == "" {
		req.RunType = RunTypeManual
	}

	result := &RunResult{}
	if err := c.do(ctx, http.MethodPost, "/etl/run/"+strconv.FormatInt(appID, 10), nil, req, result); err != nil {
		return nil, fmt.Errorf("running etl for app %d: %w", appID, err)
	}
	return result, nil
}

// Apps lists the applications tracked by the backend.
func (c *Client) Apps(ctx context.Context) ([]App, error) {
	var apps []App
	if err := c.do(ctx, http.MethodGet, "/apps", nil, nil, &apps); err != nil {
		return nil, fmt.Errorf("listing apps: %w", err)
	}
	if apps == nil {
		apps = []App{}
	}
	return apps, nil
}

// CreateApp registers a new app with the backend.
func (c *Client) CreateApp(ctx context.Context, in AppInput) error {
	if err := validateAppInput(in); err != nil {
		return fmt.Errorf("creating app: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/apps", nil, in, nil); err != nil {
		return fmt.Errorf("creating app: %w", err)
	}
	return nil
}

// UpdateApp replaces every field of the app with the given row id.
func (c *Client) UpdateApp(ctx context.Context, id int64, in AppInput) error {
	if err := validateAppInput(in); err != nil {
		return fmt.Errorf("updating app %d: %w", id, err)
	}
	if err := c.do(ctx, http.MethodPut, "/apps/"+strconv.FormatInt(id, 10), nil, in, nil); err != nil {
		return fmt.Errorf("updating app %d: %w", id, err)
	}
	return nil
}

// DeleteApp removes an app. The backend also deletes its events and job history.
func (c *Client) DeleteApp(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/apps/"+strconv.FormatInt(id, 10), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting app %d: %w", id, err)
	}
	return nil
}

func validateAppInput(in AppInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(in.AppID) == "" {
		return errors.New("app id is required")
	}
	return nil
}

// SearchEvents fetches one page of raw events for an app.
func (c *Client) SearchEvents(ctx context.Context, q EventQuery) (*EventPage, error) {
	if q.AppID == "" {
		return nil, errors.New("searching events: app id is required")
	}

	params := url.Values{}
	setString(params, "app_id", q.AppID)
	setInt(params, "page", q.Page)
	setInt(params, "limit", q.Limit)
	setString(params, "start_date", q.StartDate)
	setString(params, "end_date", q.EndDate)
	setString(params, "event_name", q.EventName)
	setString(params, "keyword", q.Keyword)

	page := &EventPage{}
	if err := c.do(ctx, http.MethodGet, "/events/search", params, nil, page); err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	if page.Data == nil {
		page.Data = []EventRecord{}
	}
	return page, nil
}

// do sends one request. A nil in skips the body; a nil out discards the response.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
