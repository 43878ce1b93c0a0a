package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Defaults mirror the browser client: two retries, waiting 2s then 4s.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultMaxRetries     = 2
	DefaultRetryBaseDelay = 2 * time.Second
	DefaultMaxRetryTime   = 30 * time.Second
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client calls the task list API on behalf of the current session.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	session      SessionStore
	logger       *slog.Logger
	maxRetries   uint64
	retryBase    time.Duration
	maxRetryTime time.Duration
	now          func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRetry sets the retry budget for transport failures of idempotent
// requests. The n-th retry waits base * 2^(n-1).
func WithRetry(maxRetries uint64, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBase = base
	}
}

// WithClock sets the time source used to check session expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithMaxRetryTime caps the total time spent retrying one request.
func WithMaxRetryTime(d time.Duration) Option {
	return func(c *Client) { c.maxRetryTime = d }
}

// New creates a client for the API at baseURL.
func New(baseURL string, session SessionStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if session == nil {
		session = &MemorySession{}
	}

	c := &Client{
		baseURL:      u,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		session:      session,
		logger:       slog.Default(),
		maxRetries:   DefaultMaxRetries,
		retryBase:    DefaultRetryBaseDelay,
		maxRetryTime: DefaultMaxRetryTime,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "api_client"))
	return c, nil
}

// Session returns the current session.
func (c *Client) Session() Session {
	return c.session.Load()
}

// Register creates an account and returns the new user's ID.
func (c *Client) Register(ctx context.Context, username, email, password string) (int64, error) {
	var resp registerResponse
	err := c.send(ctx, call{
		method:    http.MethodPost,
		path:      "/register",
		in:        credentials{Username: username, Email: email, Password: password},
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp loginResponse
	err := c.send(ctx, call{
		method:    http.MethodPost,
		path:      "/login",
		in:        credentials{Email: email, Password: password},
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return Session{}, err
	}

	user := resp.User
	sess := Session{Token: resp.Token, User: &user, ExpiresAt: resp.ExpiresAt}
	if err := c.session.Save(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Logout tells the server and forgets the session. The local session is
// cleared even when the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	if err != nil && !errors.Is(err, ErrSignedOut) {
		c.logger.Warn("logout request failed", slog.String("error", err.Error()))
	}
	return c.session.Clear()
}

// ListTasks returns the caller's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task.
func (c *Client) CreateTask(ctx context.Context, text string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", taskBody{TaskName: text}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// RenameTask replaces a task's text.
func (c *Client) RenameTask(ctx context.Context, id int64, text string) (*Renamed, error) {
	var resp Renamed
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), taskBody{TaskName: text}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleTask flips a task's completion. It is never retried: a lost
// response after the server applied the flip would otherwise undo it.
func (c *Client) ToggleTask(ctx context.Context, id int64) (*Toggled, error) {
	var resp Toggled
	err := c.send(ctx, call{
		method:  http.MethodPut,
		path:    fmt.Sprintf("/tasks/%d/status", id),
		out:     &resp,
		noRetry: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// ClearTasks removes all of the caller's tasks and returns how many were deleted.
func (c *Client) ClearTasks(ctx context.Context) (int64, error) {
	var resp clearResponse
	if err := c.do(ctx, http.MethodDelete, "/clearalltasks", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// Health reports the server and database status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.send(ctx, call{method: http.MethodGet, path: "/health", out: &h, anonymous: true}); err != nil {
		return nil, err
	}
	return &h, nil
}

// isIdempotent reports whether a request may be sent again after a
// transport failure.
func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func (c *Client) backoff() retry.Backoff {
	b := retry.NewExponential(c.retryBase)
	b = retry.WithMaxRetries(c.maxRetries, b)
	if c.maxRetryTime > 0 {
		b = retry.WithMaxDuration(c.maxRetryTime, b)
	}
	return b
}

// call describes one API request.
type call struct {
	method string
	path   string
	in     interface{}
	out    interface{}
	// anonymous requests are sent without the session token.
	anonymous bool
	// noRetry marks requests whose effect is not safe to repeat even
	// though the method is idempotent.
	noRetry bool
}

// do sends an authenticated request, retrying transport failures when the
// method is idempotent.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	return c.send(ctx, call{method: method, path: path, in: in, out: out})
}

// send sends one API request and decodes a successful JSON response into
// cl.out. Only transport failures are retried; HTTP error responses never
// are. A session that has expired locally is purged without a round trip.
func (c *Client) send(ctx context.Context, cl call) error {
	method, path := cl.method, cl.path

	var payload []byte
	if cl.in != nil {
		var err error
		if payload, err = json.Marshal(cl.in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var sess Session
	if !cl.anonymous {
		sess = c.session.Load()
		if sess.SignedIn() && sess.Expired(c.now()) {
			c.logger.Info("session expired, signing out", slog.Time("expires_at", sess.ExpiresAt))
			if err := c.session.Clear(); err != nil {
				c.logger.Error("failed to clear session", slog.String("error", err.Error()))
			}
			return fmt.Errorf("%s %s: %w", method, path, ErrSignedOut)
		}
	}

	retryable := !cl.noRetry && isIdempotent(method)
	attempt := 0

	var resp *http.Response
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		req, err := c.newRequest(ctx, method, path, payload, sess.Token)
		if err != nil {
			return err
		}

		resp, err = c.httpClient.Do(req)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable {
			return err
		}
		c.logger.Warn("request failed, retrying",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		return retry.RetryableError(err)
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.handleErrorResponse(resp, sess.SignedIn())
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	payload []byte,
	token string,
) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// handleErrorResponse converts an HTTP error into an APIError. When an
// authenticated request is rejected with 401 or 403 the session is purged
// and the error also matches ErrSignedOut.
func (c *Client) handleErrorResponse(resp *http.Response, authenticated bool) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Error
		apiErr.Reason = body.Reason
	}

	if !authenticated || !apiErr.IsAuthError() {
		return apiErr
	}

	c.logger.Info("session rejected by server, signing out",
		slog.Int("status", resp.StatusCode),
		slog.String("reason", apiErr.Reason))
	if err := c.session.Clear(); err != nil {
		c.logger.Error("failed to clear session", slog.String("error", err.Error()))
	}
	return fmt.Errorf("%w: %w", ErrSignedOut, apiErr)
}
