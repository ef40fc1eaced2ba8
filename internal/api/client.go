// Package api is the HTTP client for the visit-tracking service. It
// owns the wire envelopes, the transport/application error split, and
// the bounded retry applied to read queries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/golog"

	"github.com/hstiawan/visit-tracker/internal/model"
)

// Client is a thin HTTP client for the visit-tracking REST API. Reads
// are retried a bounded number of times; mutations are attempted
// exactly once and must be re-triggered explicitly on failure.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	log         *golog.Logger
	readRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithReadRetries sets how many times a failed read is retried.
func WithReadRetries(n int) Option {
	return func(c *Client) { c.readRetries = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *golog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:         golog.Default,
		readRetries: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSchedules fetches one page of the caregiver's schedules.
func (c *Client) ListSchedules(ctx context.Context, page, pageSize int) (*ScheduleList, error) {
	path := fmt.Sprintf("/schedules?page=%d&pageSize=%d", page, pageSize)

	var env scheduleListEnvelope
	if err := c.get(ctx, path, &env); err != nil {
		return nil, err
	}

	return &ScheduleList{
		Schedules:  env.Data,
		Pagination: env.Pagination,
		Message:    env.Message,
	}, nil
}

// GetSchedule fetches a single schedule with its task checklist.
func (c *Client) GetSchedule(ctx context.Context, scheduleID string) (*model.ScheduleDetails, error) {
	path := "/schedules/" + url.PathEscape(scheduleID)

	var env scheduleDetailEnvelope
	if err := c.get(ctx, path, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &APIError{Message: fmt.Sprintf("schedule %s not found", scheduleID)}
	}
	return env.Data, nil
}

// StartVisit clocks in to a schedule at the given position. The
// returned string is the server's confirmation message.
func (c *Client) StartVisit(ctx context.Context, scheduleID string, pos Position) (string, error) {
	path := "/schedules/" + url.PathEscape(scheduleID) + "/start"

	var env visitEnvelope
	if err := c.post(ctx, path, pos, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// EndVisit clocks out of an in-progress visit at the given position.
func (c *Client) EndVisit(ctx context.Context, scheduleID string, pos Position) (string, error) {
	path := "/schedules/" + url.PathEscape(scheduleID) + "/end"

	var env visitEnvelope
	if err := c.post(ctx, path, pos, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// UpdateTask sets a task's status and optional reason. The reason is
// only meaningful for not-completed tasks and is forced empty on a
// transition to completed. Returns the updated task when the server
// echoes it back.
func (c *Client) UpdateTask(ctx context.Context, taskID string, status model.TaskStatus, reason *string) (*model.Task, error) {
	if status == model.TaskCompleted {
		reason = nil
	}
	path := "/tasks/" + url.PathEscape(taskID) + "/update"

	var env taskEnvelope
	if err := c.post(ctx, path, updateTaskRequest{Status: status, Reason: reason}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// get performs a read with the configured bounded retry.
func (c *Client) get(ctx context.Context, path string, result envelope) error {
	var lastErr error
	for attempt := 0; attempt <= c.readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff(attempt)):
			}
			c.log.Debugf("retrying GET %s (attempt %d)", path, attempt+1)
		}

		lastErr = c.do(ctx, http.MethodGet, path, nil, result)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// post performs a mutation. Mutations are never retried automatically:
// a failure is surfaced and must be re-triggered by the caller.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	env, ok := result.(envelope)
	if !ok {
		return fmt.Errorf("result type %T is not a response envelope", result)
	}
	return c.do(ctx, http.MethodPost, path, body, env)
}

// do executes one HTTP round trip, decodes the response envelope, and
// classifies the outcome as success, APIError, or TransportError.
func (c *Client) do(ctx context.Context, method, path string, body any, result envelope) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debugf("%s %s: transport failure: %v", method, path, err)
		return &TransportError{Err: fmt.Errorf("executing request %s %s: %w", method, path, err)}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", readErr)}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		// An unusable body falls back to the generic status message.
		c.log.Debugf("%s %s: undecodable body (status %d)", method, path, resp.StatusCode)
		return &TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decoding response from %s %s: %w", method, path, err),
		}
	}

	if apiErr := result.failure(); apiErr != nil {
		c.log.Debugf("%s %s: server error %d: %s", method, path, apiErr.Code, apiErr.Message)
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Status: resp.StatusCode}
	}

	c.log.Debugf("%s %s: ok", method, path)
	return nil
}

// retryBackoff computes the wait before the given retry attempt:
// 500ms, 1s, 2s, capped at 5s.
func retryBackoff(attempt int) time.Duration {
	backoff := 500 * time.Millisecond << uint(attempt-1)
	if backoff > 5*time.Second {
		backoff = 5 * time.Second
	}
	return backoff
}
