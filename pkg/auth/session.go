// Package auth implements the stateful login handshake with a DWA server:
// form-based sign-in against the spring or acegi security-check endpoint,
// session cookies, and the DWA token scraped from the post-login page.
// It is agnostic about how requests are later sent; package transport
// does that.
package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"
)

// Endpoint selects which security-check endpoint the login handshake uses.
type Endpoint string

const (
	// EndpointAuto tries spring first, then acegi.
	EndpointAuto Endpoint = ""

	// EndpointSpring forces j_spring_security_check.
	EndpointSpring Endpoint = "spring"

	// EndpointAcegi forces j_acegi_security_check.
	EndpointAcegi Endpoint = "acegi"
)

// The DWA token is a 36-character lowercase-hex UUID embedded in a
// getDWAToken script on the post-login page.
var tokenPattern = regexp.MustCompile(`(?is)function\s+getDWAToken\s*\([^)]*\)\s*\{[^"']*["']([0-9a-f\-]{36})`)

// Config holds configuration for a login session.
type Config struct {
	// BaseURL is the base URL of the DWA server, e.g. "https://dwa.example.com".
	BaseURL string

	// Username and Password are the sign-in credentials.
	Username string
	Password string

	// Endpoint selects the security-check endpoint. Default: auto-detect.
	Endpoint Endpoint

	// TLSVerify controls TLS certificate verification. Default: true.
	TLSVerify *bool

	// Timeout for the login requests. Default: 30 seconds.
	Timeout time.Duration

	// Logger defaults to a null logger.
	Logger hclog.Logger
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
		validation.Field(&c.Endpoint, validation.In(EndpointAuto, EndpointSpring, EndpointAcegi)),
	)
}

// Session holds the authenticated state of one DWA sign-in: the cookie
// jar shared with the transport and the scraped DWA token.
type Session struct {
	cfg    Config
	client *http.Client
	logger hclog.Logger
	token  string
}

// NewSession creates a session from the given configuration. The session
// is not authenticated until Login is called.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	httpTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.TLSVerify != nil && !*cfg.TLSVerify {
		httpTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Session{
		cfg:    cfg,
		logger: cfg.Logger,
		client: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: httpTransport,
		},
	}, nil
}

// Login performs the sign-in handshake. With EndpointAuto it tries the
// spring endpoint first and falls back to acegi.
func (s *Session) Login(ctx context.Context) error {
	switch s.cfg.Endpoint {
	case EndpointSpring, EndpointAcegi:
		s.logger.Debug("using login endpoint", "endpoint", s.cfg.Endpoint)
		if err := s.tryLogin(ctx, s.cfg.Endpoint); err != nil {
			return fmt.Errorf("login failed with %s endpoint: %w", s.cfg.Endpoint, err)
		}
		return nil
	default:
		s.logger.Debug("auto-detecting login endpoint")
		springErr := s.tryLogin(ctx, EndpointSpring)
		if springErr == nil {
			return nil
		}
		s.logger.Debug("spring endpoint failed, trying acegi", "error", springErr)
		if acegiErr := s.tryLogin(ctx, EndpointAcegi); acegiErr != nil {
			return fmt.Errorf("login failed with both endpoints: spring: %v; acegi: %w", springErr, acegiErr)
		}
		return nil
	}
}

func (s *Session) tryLogin(ctx context.Context, endpoint Endpoint) error {
	var loginURL string
	switch endpoint {
	case EndpointSpring:
		loginURL = s.cfg.BaseURL + "/dwa/j_spring_security_check"
	case EndpointAcegi:
		loginURL = s.cfg.BaseURL + "/dwa/j_acegi_security_check"
	default:
		return fmt.Errorf("unknown endpoint type: %q", endpoint)
	}

	form := url.Values{
		"j_username":  {s.cfg.Username},
		"j_password":  {s.cfg.Password},
		"loginButton": {""},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	m := tokenPattern.FindSubmatch(body)
	if m == nil {
		return fmt.Errorf("DWA token not found in login response")
	}
	s.token = string(m[1])
	s.logger.Debug("authenticated", "endpoint", endpoint)
	return nil
}

// Token returns the DWA token scraped during Login.
func (s *Session) Token() (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("not logged in: call Login first")
	}
	return s.token, nil
}

// BaseURL returns the server base URL without a trailing slash.
func (s *Session) BaseURL() string {
	return s.cfg.BaseURL
}

// Username returns the signed-in user name.
func (s *Session) Username() string {
	return s.cfg.Username
}

// PrepareHeaders returns the extra headers merged with the DWA token
// header expected by the JSON endpoints.
func (s *Session) PrepareHeaders(extra http.Header) http.Header {
	hdr := http.Header{}
	if s.token != "" {
		hdr.Set("Dwa_token", s.token)
	}
	for k, vs := range extra {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}
	return hdr
}

// HTTPClient returns the underlying client carrying the session cookies.
func (s *Session) HTTPClient() *http.Client {
	return s.client
}
