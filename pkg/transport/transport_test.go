package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T, cfg Config) *HTTP {
	t.Helper()
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = time.Millisecond
	}
	tr, err := NewHTTP(cfg)
	require.NoError(t, err)
	return tr
}

func TestHTTPPostForm(t *testing.T) {
	var gotForm url.Values
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotContentType = r.Header.Get("Content-Type")
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	tr := newTestTransport(t, Config{})
	body, err := tr.PostForm(context.Background(), srv.URL, url.Values{"a": {"1"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
	assert.Equal(t, "1", gotForm.Get("a"))
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestHTTPHeaders(t *testing.T) {
	var gotToken, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Dwa_token")
		gotExtra = r.Header.Get("X-Extra")
	}))
	defer srv.Close()

	tr := newTestTransport(t, Config{
		Headers: func(extra http.Header) http.Header {
			hdr := http.Header{}
			hdr.Set("Dwa_token", "tok")
			for k, vs := range extra {
				for _, v := range vs {
					hdr.Add(k, v)
				}
			}
			return hdr
		},
	})

	_, err := tr.Get(context.Background(), srv.URL, http.Header{"X-Extra": {"yes"}})
	require.NoError(t, err)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "yes", gotExtra)
}

func TestHTTPRetries(t *testing.T) {
	t.Run("5xx retries until success", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			if hits < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, "recovered")
		}))
		defer srv.Close()

		tr := newTestTransport(t, Config{MaxRetries: 5})
		body, err := tr.Get(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("recovered"), body)
		assert.Equal(t, 3, hits)
	})

	t.Run("5xx gives up after max retries", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}))
		defer srv.Close()

		tr := newTestTransport(t, Config{MaxRetries: 2})
		_, err := tr.Get(context.Background(), srv.URL, nil)

		var serr *StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusInternalServerError, serr.Code)
		assert.Equal(t, "boom", serr.Body)
		assert.Equal(t, 3, hits)
	})

	t.Run("4xx fails immediately", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		tr := newTestTransport(t, Config{MaxRetries: 5})
		_, err := tr.Get(context.Background(), srv.URL, nil)

		var serr *StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusForbidden, serr.Code)
		assert.Equal(t, 1, hits)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tr := newTestTransport(t, Config{MaxRetries: 100})
		_, err := tr.Get(ctx, srv.URL, nil)
		require.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncate(long), 512+len("..."))
	assert.Equal(t, "short", truncate([]byte("short")))
}

func TestConfigValidate(t *testing.T) {
	_, err := NewHTTP(Config{RetryInterval: -time.Second})
	assert.ErrorContains(t, err, "invalid transport config")
}

func TestStub(t *testing.T) {
	ctx := context.Background()

	t.Run("serves canned responses and records calls", func(t *testing.T) {
		stub := NewStub().Respond("/a", "body-a")

		body, err := stub.PostForm(ctx, "https://host/a", url.Values{"k": {"v"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("body-a"), body)
		assert.Equal(t, 1, stub.Calls("/a"))
		assert.Equal(t, "v", stub.LastForm("/a").Get("k"))

		_, err = stub.Get(ctx, "https://host/missing", nil)
		assert.ErrorContains(t, err, "missing stub")
	})

	t.Run("handlers see the submitted form", func(t *testing.T) {
		stub := NewStub().RespondFunc("/a", func(form url.Values) ([]byte, error) {
			return []byte("got " + form.Get("k")), nil
		})

		body, err := stub.PostForm(ctx, "https://host/a", url.Values{"k": {"v"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("got v"), body)
	})

	t.Run("registered errors are returned", func(t *testing.T) {
		wantErr := fmt.Errorf("down")
		stub := NewStub().RespondErr("/a", wantErr)

		_, err := stub.Get(ctx, "https://host/a", nil)
		assert.ErrorIs(t, err, wantErr)
	})
}
