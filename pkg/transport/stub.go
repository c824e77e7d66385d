package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Stub is a Transport that serves canned responses keyed by URL path.
// It records call counts and the last submitted form per path, so tests
// can assert both payloads and fetch frequency. No network involved.
type Stub struct {
	responses map[string][]byte
	handlers  map[string]func(form url.Values) ([]byte, error)
	errs      map[string]error
	calls     map[string]int
	lastForm  map[string]url.Values
}

var _ Transport = (*Stub)(nil)

// NewStub creates an empty stub transport.
func NewStub() *Stub {
	return &Stub{
		responses: map[string][]byte{},
		handlers:  map[string]func(form url.Values) ([]byte, error){},
		errs:      map[string]error{},
		calls:     map[string]int{},
		lastForm:  map[string]url.Values{},
	}
}

// Respond registers a canned response body for a URL path.
func (s *Stub) Respond(path, body string) *Stub {
	s.responses[path] = []byte(body)
	return s
}

// RespondFunc registers a handler for a URL path, for endpoints whose
// response depends on the submitted form.
func (s *Stub) RespondFunc(path string, fn func(form url.Values) ([]byte, error)) *Stub {
	s.handlers[path] = fn
	return s
}

// RespondErr registers an error for a URL path.
func (s *Stub) RespondErr(path string, err error) *Stub {
	s.errs[path] = err
	return s
}

// Calls returns how many requests hit the given path.
func (s *Stub) Calls(path string) int {
	return s.calls[path]
}

// LastForm returns the form values of the most recent POST to the path.
func (s *Stub) LastForm(path string) url.Values {
	return s.lastForm[path]
}

// PostForm implements Transport.
func (s *Stub) PostForm(_ context.Context, rawurl string, form url.Values, _ http.Header) ([]byte, error) {
	path, err := s.pathOf(rawurl)
	if err != nil {
		return nil, err
	}
	s.lastForm[path] = form
	return s.serve(path, form)
}

// Get implements Transport.
func (s *Stub) Get(_ context.Context, rawurl string, _ http.Header) ([]byte, error) {
	path, err := s.pathOf(rawurl)
	if err != nil {
		return nil, err
	}
	return s.serve(path, nil)
}

func (s *Stub) pathOf(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("stub received unparsable URL %q: %w", rawurl, err)
	}
	return u.Path, nil
}

func (s *Stub) serve(path string, form url.Values) ([]byte, error) {
	s.calls[path]++
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	if fn, ok := s.handlers[path]; ok {
		return fn(form)
	}
	body, ok := s.responses[path]
	if !ok {
		return nil, fmt.Errorf("missing stub for %s", path)
	}
	return body, nil
}
