package georef

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gaborage/go-georef/logger"
	"github.com/gaborage/go-georef/node"
	"github.com/gaborage/go-georef/retry"
	"github.com/gaborage/go-georef/trace"
)

const (
	// DefaultTimeout is the per-request transport timeout
	DefaultTimeout = 30 * time.Second

	// DefaultWrapper is the mandatory top-level field of every response body
	DefaultWrapper = "respuesta"

	// keyParam is the query parameter carrying the authentication key
	keyParam = "key"

	// errorField is the reserved child of the root wrapper for service errors
	errorField = "error"

	// snippetLimit bounds how much response body ends up in logs and errors
	snippetLimit = 512
)

// Config holds the immutable client configuration. Key and BaseURL are
// required; everything else has a sensible default.
type Config struct {
	// Key is the authentication key appended to every request.
	Key string

	// BaseURL is the default service endpoint; Execute accepts a per-call
	// override for operations hosted elsewhere.
	BaseURL string

	// Wrapper is the root wrapper field name. Defaults to DefaultWrapper.
	Wrapper string

	// Timeout is the per-request transport timeout. Defaults to
	// DefaultTimeout. Ignored when HTTPClient is supplied.
	Timeout time.Duration

	// Retry governs the attempt budget and backoff for transient failures.
	Retry retry.Config

	// RateLimit throttles outgoing attempts client-side when > 0. Burst
	// defaults to 1.
	RateLimit rate.Limit
	Burst     int

	// HTTPClient overrides the underlying transport. It must be safe for
	// concurrent use; the default client is.
	HTTPClient *nethttp.Client

	// Logger receives structured request/retry logs. Defaults to a no-op.
	Logger logger.Logger
}

// Client executes operations against the service. It holds no mutable state
// across calls and is safe for concurrent use.
type Client struct {
	key        string
	baseURL    string
	wrapper    string
	retryCfg   retry.Config
	httpClient *nethttp.Client
	limiter    *rate.Limiter
	log        logger.Logger
}

// New creates a Client from cfg. It fails when the authentication key or the
// base URL is missing.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, NewValidationError("key", "authentication key is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, NewValidationError("base_url", "base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, NewValidationError("base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	wrapper := cfg.Wrapper
	if wrapper == "" {
		wrapper = DefaultWrapper
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &nethttp.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	return &Client{
		key:        cfg.Key,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		wrapper:    wrapper,
		retryCfg:   cfg.Retry,
		httpClient: httpClient,
		limiter:    limiter,
		log:        log,
	}, nil
}

// Params is the per-call parameter mapping. Values are plain strings; an
// absent value is simply not in the map, never an empty placeholder.
type Params map[string]string

// Set stores a parameter.
func (p Params) Set(key, value string) {
	p[key] = value
}

// SetOptional stores a parameter unless the value is blank. Callers use it for
// fields the service treats as optional, so absence stays absent on the wire.
func (p Params) SetOptional(key, value string) {
	if strings.TrimSpace(value) != "" {
		p[key] = value
	}
}

// CallOption adjusts a single Execute call.
type CallOption func(*callSettings)

type callSettings struct {
	baseURL string
}

// WithBaseURL overrides the configured base URL for one call. A few
// operations live on a different host than the rest of the service.
func WithBaseURL(baseURL string) CallOption {
	return func(s *callSettings) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// Result is the resolution of a non-blocking call.
type Result struct {
	Node *node.Node
	Err  error
}

// Execute runs one logical operation: compose the signed URL, perform the GET
// with bounded retries, decode the body, and return the node under the root
// wrapper. op is a free-form label used in logs and error messages.
//
// Transient transport failures are retried per the configured budget; a
// missing root wrapper and service-reported errors surface immediately.
func (c *Client) Execute(ctx context.Context, op string, params Params, opts ...CallOption) (*node.Node, error) {
	settings := callSettings{baseURL: c.baseURL}
	for _, opt := range opts {
		opt(&settings)
	}

	requestID := trace.EnsureRequestID(ctx)
	fullURL := c.signedURL(settings.baseURL, params)

	c.log.Debug().
		Str("operation", op).
		Str("request_id", requestID).
		Str("url", fullURL).
		Msg("composed request URL")

	return retry.Do(ctx, c.log, c.retryCfg, op, func(ctx context.Context) (*node.Node, error) {
		return c.attempt(ctx, op, requestID, fullURL)
	})
}

// Go is the non-blocking variant of Execute. It resolves with exactly the
// value the synchronous call would have produced; no further guarantees.
func (c *Client) Go(ctx context.Context, op string, params Params, opts ...CallOption) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		n, err := c.Execute(ctx, op, params, opts...)
		ch <- Result{Node: n, Err: err}
	}()
	return ch
}

// signedURL appends the authentication key followed by every parameter.
// Parameter order is irrelevant to the service; entries are sorted only so
// logged URLs are stable.
func (c *Client) signedURL(baseURL string, params Params) string {
	var b strings.Builder
	b.WriteString(baseURL)
	b.WriteString("?")
	b.WriteString(keyParam)
	b.WriteString("=")
	b.WriteString(url.QueryEscape(c.key))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("&")
		b.WriteString(url.QueryEscape(k))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// attempt is the retried unit of work: one GET, one decode, one inspection.
// Structural and domain errors come back non-retryable, so the controller
// surfaces them on first occurrence.
func (c *Client) attempt(ctx context.Context, op, requestID, fullURL string) (*node.Node, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, fullURL, nil)
	if err != nil {
		return nil, NewValidationError("url", fmt.Sprintf("cannot build request: %v", err))
	}
	req.Header.Set(trace.HeaderXRequestID, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewTransientError(op, "request execution failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransientError(op, "failed to read response body", err)
	}

	c.log.Debug().
		Str("operation", op).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Bytes("body", snippet(body)).
		Msg("service response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewTransientError(op,
			fmt.Sprintf("HTTP status %d, body %q", resp.StatusCode, snippet(body)), nil)
	}

	doc, err := node.Decode(body)
	if err != nil {
		return nil, NewTransientError(op,
			fmt.Sprintf("undecodable body %q", snippet(body)), err)
	}

	root := doc.Child(c.wrapper)
	if root == nil {
		return nil, NewStructuralError(op, fmt.Sprintf("missing root wrapper %q", c.wrapper))
	}

	if errNode := root.Child(errorField); errNode != nil {
		return nil, c.serviceError(op, errNode)
	}
	return root, nil
}

// domainError turns the reserved error node into a typed error. A malformed
// node missing the id attribute yields a domain error with an absent code.
func (c *Client) serviceError(op string, errNode *node.Node) error {
	code, _ := errNode.Attribute("id")
	message, ok := errNode.Value()
	if !ok {
		message = "service reported an error"
	}
	return NewDomainError(op, code, message)
}

func snippet(body []byte) []byte {
	if len(body) <= snippetLimit {
		return body
	}
	return body[:snippetLimit]
}
