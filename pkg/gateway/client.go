package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTokenHeader carries the session credential on every
	// authenticated request.
	DefaultTokenHeader = "X-Session-Token"

	// DefaultTimeout is the fixed per-request budget. Evaluation calls sit
	// behind an LLM, so the budget is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultLoginPath is where the unauthorized handler navigates to.
	DefaultLoginPath = "/login"

	userAgent = "memocoach-go/1.0"

	// maxBodyBytes bounds response reads.
	maxBodyBytes = 4 << 20
)

// Client is the shared HTTP client for the Memo AI service. All domain
// services route their calls through a single Client so that credential
// injection and 401 handling happen uniformly.
type Client struct {
	baseURL   string
	transport RoundTripFunc
	logger    *slog.Logger
}

type clientConfig struct {
	httpClient     *http.Client
	timeout        time.Duration
	tokenHeader    string
	loginPath      string
	credentials    CredentialSource
	onUnauthorized func()
	navigator      Navigator
	middleware     []Middleware
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithTimeout sets the fixed per-request budget. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithTokenHeader overrides the credential header name.
func WithTokenHeader(name string) Option {
	return func(c *clientConfig) {
		c.tokenHeader = name
	}
}

// WithCredentials sets the source consulted before every request.
func WithCredentials(src CredentialSource) Option {
	return func(c *clientConfig) {
		c.credentials = src
	}
}

// WithUnauthorizedHook sets the callback fired on any 401 response.
// Typically this is the session store's local teardown.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *clientConfig) {
		c.onUnauthorized = hook
	}
}

// WithNavigator sets the navigator used to redirect to the login view after
// a 401.
func WithNavigator(nav Navigator) Option {
	return func(c *clientConfig) {
		c.navigator = nav
	}
}

// WithLoginPath overrides the path the unauthorized handler navigates to.
func WithLoginPath(path string) Option {
	return func(c *clientConfig) {
		c.loginPath = path
	}
}

// WithMiddleware appends middleware to the transport chain. Middleware runs
// inside credential injection and outside the raw transport, in the order
// given.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *clientConfig) {
		c.middleware = append(c.middleware, mws...)
	}
}

// WithLogger sets the client logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// New creates a gateway client for the given service base URL.
func New(baseURL string, opts ...Option) *Client {
	cfg := clientConfig{
		timeout:     DefaultTimeout,
		tokenHeader: DefaultTokenHeader,
		loginPath:   DefaultLoginPath,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	mws := []Middleware{injectCredential(cfg.tokenHeader, cfg.credentials)}
	mws = append(mws, cfg.middleware...)
	mws = append(mws, handleUnauthorized(cfg.onUnauthorized, cfg.navigator, cfg.loginPath))

	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: chain(hc.Do, mws...),
		logger:    cfg.logger,
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (Result, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Result, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (Result, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (Result, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do is the single request routine behind all verbs. A non-nil error means
// the request could not be constructed; everything that happened on the wire
// is reported through the Result.
func (c *Client) do(ctx context.Context, method, path string, body any) (Result, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("gateway: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Result{}, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.transport(req)
	if err != nil {
		c.logger.Debug("gateway: transport failure",
			"method", method, "path", path, "error", err)
		return Result{Error: err.Error()}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Error: err.Error(), Status: resp.StatusCode}, nil
	}

	res := normalize(resp.StatusCode, raw)
	if !res.Success {
		c.logger.Debug("gateway: call failed",
			"method", method, "path", path,
			"status", res.Status, "code", res.Code)
	}
	return res, nil
}
