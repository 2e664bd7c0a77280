// Package fetch performs bounded-retry HTTP GETs against the remote animal
// APIs. Every failure is folded into a Result; nothing here returns a Go
// error to callers of GetJSON.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/clock"
	"github.com/theirongolddev/critters/internal/logging"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 8 * time.Second

	// DefaultRetries is the number of extra attempts after the first.
	DefaultRetries = 2

	// DefaultBackoffBase is the wait before the second attempt; it doubles
	// after every further failure.
	DefaultBackoffBase = 300 * time.Millisecond

	maxBodyBytes = 1 << 20
	acceptJSON   = "application/json"
)

// Options controls one logical request.
type Options struct {
	Timeout time.Duration
	Retries int
}

// DefaultOptions returns 8s per attempt and 2 retries.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, Retries: DefaultRetries}
}

// Attempts returns the attempt budget.
func (o Options) Attempts() int {
	if o.Retries < 0 {
		return 1
	}
	return o.Retries + 1
}

// Result is the outcome of GetJSON.
type Result struct {
	OK   bool
	Data json.RawMessage
	Err  string
}

// Client issues GET requests with per-attempt timeouts and exponential
// backoff. It holds no per-request state and is shared by all adapters.
type Client struct {
	httpClient  *http.Client
	clock       clock.Clock
	log         zerolog.Logger
	userAgent   string
	backoffBase time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock sets the clock used for backoff waits.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithBackoffBase overrides the first backoff wait.
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoffBase = d
		}
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		clock:       clock.Real{},
		log:         logging.Nop,
		userAgent:   "critters",
		backoffBase: DefaultBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backoff returns the wait after the failed attempt with the given 0-based index.
func (c *Client) Backoff(attempt int) time.Duration {
	return c.backoffBase * time.Duration(1<<uint(attempt))
}

// GetJSON fetches url and returns its body as raw JSON.
func (c *Client) GetJSON(ctx context.Context, url string, opts Options) Result {
	var data json.RawMessage
	err := c.retry(ctx, url, acceptJSON, opts, func(body io.Reader) error {
		raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
		if err != nil {
			return err
		}
		if !json.Valid(raw) {
			return ErrInvalidJSON
		}
		data = raw
		return nil
	})
	if err != nil {
		return Result{Err: err.Error()}
	}
	return Result{OK: true, Data: data}
}

// Probe checks that url answers with a 2xx status. The body is discarded
// and no Accept header is sent, since probed urls are usually images.
func (c *Client) Probe(ctx context.Context, url string, opts Options) error {
	return c.retry(ctx, url, "", opts, func(body io.Reader) error {
		_, err := io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
		return err
	})
}

func (c *Client) retry(ctx context.Context, url, accept string, opts Options, consume func(io.Reader) error) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attempts := opts.Attempts()

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = c.attempt(ctx, url, accept, timeout, consume)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == attempts-1 {
			break
		}

		delay := c.Backoff(attempt)
		c.log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Int("of", attempts).
			Dur("backoff", delay).
			Err(lastErr).
			Msg("fetch attempt failed")

		select {
		case <-c.clock.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.log.Debug().Str("url", url).Int("attempts", attempts).Err(lastErr).Msg("fetch gave up")
	return lastErr
}

func (c *Client) attempt(ctx context.Context, url, accept string, timeout time.Duration, consume func(io.Reader) error) error {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return timeoutOr(actx, ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if err := consume(resp.Body); err != nil {
		return timeoutOr(actx, ctx, err)
	}
	return nil
}

// timeoutOr maps an attempt deadline to ErrTimeout unless the parent
// context is the one that ended.
func timeoutOr(attemptCtx, parent context.Context, err error) error {
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return ErrTimeout
	}
	return err
}
