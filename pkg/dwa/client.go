package dwa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/dwatools/go-dwa/pkg/cache"
	"github.com/dwatools/go-dwa/pkg/guid"
	"github.com/dwatools/go-dwa/pkg/transport"
)

const (
	getChildrenPath = "dwa/json/doors/node/getChildren"
	getPagePath     = "dwa/json/doors/documentnode/getPage"

	// DefaultFetchCount is the getPage page size when PageOptions does
	// not specify one.
	DefaultFetchCount = 10000
)

// Session supplies the authenticated connection state the client stamps
// onto every request. *auth.Session implements it.
type Session interface {
	BaseURL() string
	Username() string
	Token() (string, error)
}

// Config holds configuration for a Client.
type Config struct {
	// Session is the authenticated login session. Required.
	Session Session

	// Transport executes the HTTP exchanges. Required; build one from
	// the session's HTTP client, or use transport.Stub in tests.
	Transport transport.Transport

	// Cache, if set, caches JSON responses keyed by URL and payload.
	// Default: no caching.
	Cache cache.Cache

	// CacheTTL bounds the lifetime of cached responses. Zero means
	// entries do not expire.
	CacheTTL time.Duration

	// Logger defaults to a null logger.
	Logger hclog.Logger
}

// Client is the high-level facade over one DWA session. It owns the
// identity map: the canonical *Resource instance per GUID, alive for the
// client's lifetime and only ever mutated in place by hydration.
//
// A Client is intended for single-threaded use. The identity map and the
// per-node children caches are mutated without locking; callers needing
// concurrent access must serialize externally.
type Client struct {
	session   Session
	transport transport.Transport
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    hclog.Logger

	identity map[guid.GUID]*Resource
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.Null{}
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	return &Client{
		session:   cfg.Session,
		transport: cfg.Transport,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		logger:    cfg.Logger,
		identity:  map[guid.GUID]*Resource{},
	}, nil
}

// Folder returns the canonical node for the given GUID, creating an
// unloaded folder stub on first reference. The stub's display name falls
// back to the GUID text until hydration.
func (c *Client) Folder(g guid.GUID) *Resource {
	return c.stub(g, KindFolder)
}

// Document returns the canonical node for the given GUID, creating an
// unloaded document stub on first reference.
func (c *Client) Document(g guid.GUID) *Resource {
	return c.stub(g, KindDocument)
}

// RootFolder parses a GUID text form and returns its folder node.
func (c *Client) RootFolder(s string) (*Resource, error) {
	g, err := guid.Parse(s)
	if err != nil {
		return nil, err
	}
	return c.Folder(g), nil
}

func (c *Client) stub(g guid.GUID, kind NodeKind) *Resource {
	if existing, ok := c.identity[g]; ok {
		return existing
	}
	node := &Resource{
		client: c,
		guid:   g,
		kind:   kind,
		meta:   map[string]any{"mainAttribute": g.String()},
	}
	c.identity[g] = node
	return node
}

// resolveRecord maps a server record to its canonical node: an existing
// node is hydrated in place (identity, kind, and cached children are
// preserved), a new one is classified by the moduleType discriminant.
func (c *Client) resolveRecord(rec ChildRecord) *Resource {
	if existing, ok := c.identity[rec.GUID]; ok {
		existing.hydrate(rec.Meta)
		return existing
	}

	meta := make(map[string]any, len(rec.Meta))
	for k, v := range rec.Meta {
		meta[k] = v
	}
	node := &Resource{
		client: c,
		guid:   rec.GUID,
		kind:   kindForModuleType(rec.ModuleType),
		meta:   meta,
		loaded: true,
	}
	c.identity[rec.GUID] = node
	return node
}

// FetchChildren fetches the raw child records of a container node. Record
// decoding is all-or-nothing: a malformed record fails the whole batch,
// with every offending record reported in the aggregated error.
func (c *Client) FetchChildren(ctx context.Context, parent guid.GUID) ([]ChildRecord, error) {
	form, err := c.standardForm(url.Values{
		"parentGuid":             {parent.String()},
		"configurationContext":   {""},
		"isDelegatedUI":          {"false"},
		"showBaselineInfoWithGC": {"false"},
		"basicInfo":              {"true"},
	})
	if err != nil {
		return nil, err
	}

	body, err := c.postJSON(ctx, getChildrenPath, form)
	if err != nil {
		return nil, fmt.Errorf("getChildren for %s: %w", parent, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("getChildren for %s: unexpected response: %w", parent, err)
	}

	records := make([]ChildRecord, 0, len(raw))
	var merr *multierror.Error
	for i, node := range raw {
		rec, err := decodeChildRecord(node)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("getChildren for %s: %w", parent, err)
	}
	return records, nil
}

// PageOptions control a getPage entry fetch.
type PageOptions struct {
	StartIndex int

	// FetchCount defaults to DefaultFetchCount.
	FetchCount int

	// ViewGUID restricts the fetch to a specific saved view.
	ViewGUID string
}

// DocumentObjects fetches one page of a document's entries and parses the
// returned HTML into DocumentObject rows. A JSON response in place of
// HTML is a server error envelope and surfaces as *ServerError.
func (c *Client) DocumentObjects(ctx context.Context, document guid.GUID, opts PageOptions) ([]DocumentObject, error) {
	if opts.FetchCount == 0 {
		opts.FetchCount = DefaultFetchCount
	}

	extra := url.Values{
		"documentGuid":      {document.String()},
		"startIndex":        {strconv.Itoa(opts.StartIndex)},
		"fetchCount":        {strconv.Itoa(opts.FetchCount)},
		"beforeOnly":        {"false"},
		"firstPageFallback": {"false"},
		"isRefresh":         {"false"},
	}
	if opts.ViewGUID != "" {
		extra.Set("viewGuid", opts.ViewGUID)
	}
	form, err := c.standardForm(extra)
	if err != nil {
		return nil, err
	}

	body, err := c.postRaw(ctx, getPagePath, form)
	if err != nil {
		return nil, fmt.Errorf("getPage for %s: %w", document, err)
	}

	var envelope map[string]any
	if json.Unmarshal(body, &envelope) == nil {
		if envelope["success"] == "false" {
			return nil, fmt.Errorf("getPage for %s: %w", document, &ServerError{Message: failureMessage(envelope)})
		}
		return nil, fmt.Errorf("getPage for %s: unexpected JSON response", document)
	}

	objects, err := ParseDocumentPage(body)
	if err != nil {
		return nil, fmt.Errorf("getPage for %s: %w", document, err)
	}
	return objects, nil
}

// standardForm merges the request-specific fields with the user and token
// fields every JSON endpoint expects.
func (c *Client) standardForm(extra url.Values) (url.Values, error) {
	token, err := c.session.Token()
	if err != nil {
		return nil, err
	}
	form := url.Values{
		"dwaUser":   {c.session.Username()},
		"DWA_TOKEN": {token},
	}
	for k, vs := range extra {
		form[k] = vs
	}
	return form, nil
}

// postJSON posts a form and returns the raw body, consulting the response
// cache first. Only JSON endpoints are cached.
func (c *Client) postJSON(ctx context.Context, path string, form url.Values) ([]byte, error) {
	fullURL := c.endpoint(path)
	key := fullURL + "?" + form.Encode()

	if body, ok := c.cache.Get(key); ok {
		c.logger.Debug("cache hit", "path", path)
		return body, nil
	}

	body, err := c.transport.PostForm(ctx, fullURL, form, nil)
	if err != nil {
		return nil, err
	}
	c.cache.Put(key, body, c.cacheTTL)
	return body, nil
}

// postRaw posts a form without caching; getPage responses are large and
// content-type agnostic.
func (c *Client) postRaw(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.transport.PostForm(ctx, c.endpoint(path), form, nil)
}

func (c *Client) endpoint(path string) string {
	return c.session.BaseURL() + "/" + strings.TrimLeft(path, "/")
}

func failureMessage(envelope map[string]any) string {
	reason, _ := envelope["failureReason"].(map[string]any)
	if msg, ok := reason["logMsg"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := reason["msgKey"].(string); ok && msg != "" {
		return msg
	}
	return "unknown error"
}
