// Package transport provides the thin HTTP veneer the client talks
// through: no business logic, only request execution, retries, and status
// handling. A stub implementation feeds canned responses to unit tests.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

// Transport executes raw HTTP exchanges against the DWA server. It knows
// nothing about identifiers or resources.
type Transport interface {
	// PostForm sends an application/x-www-form-urlencoded POST and
	// returns the raw response body.
	PostForm(ctx context.Context, rawurl string, form url.Values, headers http.Header) ([]byte, error)

	// Get sends a GET and returns the raw response body.
	Get(ctx context.Context, rawurl string, headers http.Header) ([]byte, error)
}

// StatusError reports a non-success HTTP status from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Body)
}

// Config holds configuration for the HTTP transport.
type Config struct {
	// Client is the HTTP client to send requests with, typically the
	// session's cookie-carrying client. Default: http.DefaultClient.
	Client *http.Client

	// Headers, if set, is called per request to supply extra headers
	// (the session token header).
	Headers func(extra http.Header) http.Header

	// MaxRetries for transient failures (network errors, 5xx).
	// Default: 3.
	MaxRetries uint64

	// RetryInterval is the initial backoff interval. Default: 1 second.
	RetryInterval time.Duration

	// Logger defaults to a null logger.
	Logger hclog.Logger
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RetryInterval, validation.Min(time.Duration(0))),
	)
}

// HTTP is the production Transport. Transient failures retry with
// exponential backoff; 4xx responses fail immediately.
type HTTP struct {
	cfg    Config
	logger hclog.Logger
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg Config) (*HTTP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 1 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	return &HTTP{cfg: cfg, logger: cfg.Logger}, nil
}

// PostForm implements Transport.
func (t *HTTP) PostForm(ctx context.Context, rawurl string, form url.Values, headers http.Header) ([]byte, error) {
	return t.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, headers)
}

// Get implements Transport.
func (t *HTTP) Get(ctx context.Context, rawurl string, headers http.Header) ([]byte, error) {
	return t.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	}, headers)
}

func (t *HTTP) do(ctx context.Context, newReq func() (*http.Request, error), headers http.Header) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		if t.cfg.Headers != nil {
			for k, vs := range t.cfg.Headers(headers) {
				for _, v := range vs {
					req.Header.Add(k, v)
				}
			}
		} else {
			for k, vs := range headers {
				for _, v := range vs {
					req.Header.Add(k, v)
				}
			}
		}

		resp, err := t.cfg.Client.Do(req)
		if err != nil {
			t.logger.Debug("request failed, will retry", "url", req.URL, "error", err)
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case resp.StatusCode >= 500:
			t.logger.Debug("server error, will retry", "url", req.URL, "status", resp.StatusCode)
			return &StatusError{Code: resp.StatusCode, Body: truncate(data)}
		case resp.StatusCode >= 400:
			return backoff.Permanent(&StatusError{Code: resp.StatusCode, Body: truncate(data)})
		}

		body = data
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(t.cfg.RetryInterval),
		), t.cfg.MaxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
