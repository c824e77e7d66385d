package base

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/dwatools/go-dwa/pkg/auth"
	"github.com/dwatools/go-dwa/pkg/cache"
	"github.com/dwatools/go-dwa/pkg/dwa"
	"github.com/dwatools/go-dwa/pkg/transport"
)

// RemoteFlags are the connection flags shared by every command that
// talks to a server. Flag values fall back to the DWA_URL, DWA_USER, and
// DWA_PASSWORD environment variables.
type RemoteFlags struct {
	URL      string
	Username string
	Password string
	Endpoint string
	Insecure bool
	CacheDir string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Register adds the connection flags to the given flag set.
func (r *RemoteFlags) Register(f *FlagSet) {
	f.StringVar(&r.URL, "url", os.Getenv("DWA_URL"),
		"Base URL of the DWA server. Defaults to the DWA_URL environment variable.")
	f.StringVar(&r.Username, "user", os.Getenv("DWA_USER"),
		"Sign-in user name. Defaults to the DWA_USER environment variable.")
	f.StringVar(&r.Password, "password", os.Getenv("DWA_PASSWORD"),
		"Sign-in password. Defaults to the DWA_PASSWORD environment variable.")
	f.StringVar(&r.Endpoint, "login-endpoint", "",
		"Security-check endpoint, \"spring\" or \"acegi\". Default: auto-detect.")
	f.BoolVar(&r.Insecure, "insecure", false,
		"Skip TLS certificate verification.")
	f.StringVar(&r.CacheDir, "cache-dir", "",
		"Directory for the on-disk response cache. Default: no caching.")
	f.DurationVar(&r.CacheTTL, "cache-ttl", time.Hour,
		"Lifetime of cached responses.")
	f.DurationVar(&r.Timeout, "timeout", 30*time.Second,
		"Timeout for individual requests.")
}

// Dial logs in and builds an authenticated client from the flags.
func (r *RemoteFlags) Dial(ctx context.Context, log hclog.Logger) (*dwa.Client, error) {
	if r.URL == "" {
		return nil, fmt.Errorf("server URL is required: set -url or DWA_URL")
	}
	if r.Username == "" {
		return nil, fmt.Errorf("user name is required: set -user or DWA_USER")
	}
	if r.Password == "" {
		return nil, fmt.Errorf("password is required: set -password or DWA_PASSWORD")
	}

	tlsVerify := !r.Insecure
	session, err := auth.NewSession(auth.Config{
		BaseURL:   r.URL,
		Username:  r.Username,
		Password:  r.Password,
		Endpoint:  auth.Endpoint(r.Endpoint),
		TLSVerify: &tlsVerify,
		Timeout:   r.Timeout,
		Logger:    log.Named("auth"),
	})
	if err != nil {
		return nil, err
	}
	if err := session.Login(ctx); err != nil {
		return nil, err
	}

	tr, err := transport.NewHTTP(transport.Config{
		Client:  session.HTTPClient(),
		Headers: session.PrepareHeaders,
		Logger:  log.Named("transport"),
	})
	if err != nil {
		return nil, err
	}

	var responseCache cache.Cache
	if r.CacheDir != "" {
		responseCache, err = cache.NewFile(afero.NewOsFs(), r.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache directory: %w", err)
		}
	}

	return dwa.New(dwa.Config{
		Session:   session,
		Transport: tr,
		Cache:     responseCache,
		CacheTTL:  r.CacheTTL,
		Logger:    log.Named("dwa"),
	})
}
