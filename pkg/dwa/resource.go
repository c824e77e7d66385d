package dwa

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/dwatools/go-dwa/pkg/guid"
)

// NodeKind classifies a resource node. There is one Resource type for all
// kinds; behavior differences are capability checks on the kind tag, not
// subtypes.
type NodeKind int

const (
	// KindFolder is a plain folder container.
	KindFolder NodeKind = iota

	// KindProject is a project container.
	KindProject

	// KindDocument is a document (formal module); the only kind whose
	// own entries can be listed via Objects.
	KindDocument

	// KindGeneric is the explicit fallback for records whose discriminant
	// is unrecognized. Generic nodes still navigate as containers.
	KindGeneric
)

func (k NodeKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindProject:
		return "project"
	case KindDocument:
		return "document"
	default:
		return "generic"
	}
}

// Resource is one node of the remote resource tree. The client's identity
// map owns the canonical instance per GUID; every lookup of the same
// identifier through the same client observes the same instance and the
// same in-place metadata updates.
//
// A Resource is created either as a stub (identifier only, unloaded) on
// first reference, or fully populated from a server record. It is never
// replaced: re-hydration merges newer metadata into the existing node.
//
// Resources are not safe for concurrent use; see the package doc.
type Resource struct {
	client *Client
	guid   guid.GUID
	kind   NodeKind
	meta   map[string]any
	loaded bool

	children    []*Resource
	hasChildren bool
}

// GUID returns the node's identifier.
func (r *Resource) GUID() guid.GUID {
	return r.guid
}

// Kind returns the node kind.
func (r *Resource) Kind() NodeKind {
	return r.kind
}

// IsDocument returns true if the node supports entry listing via Objects.
func (r *Resource) IsDocument() bool {
	return r.kind == KindDocument
}

// Name returns the node's display name (the mainAttribute metadata
// field), or "" if absent. On a stub this triggers the one-time lazy-load
// hook first; stubs carry the GUID text as a display-name fallback.
func (r *Resource) Name() string {
	if !r.loaded {
		r.lazyLoad()
	}
	return r.MetaString("mainAttribute")
}

// lazyLoad is the hydration hook for nodes first referenced as stubs.
// A node's own metadata is not fetchable by bare GUID through the JSON
// tree API (it only arrives on the parent's getChildren), so for now the
// hook only marks the node loaded.
func (r *Resource) lazyLoad() {
	r.loaded = true
}

// Meta returns a metadata field stored verbatim from the server record.
func (r *Resource) Meta(key string) (any, bool) {
	v, ok := r.meta[key]
	return v, ok
}

// MetaString returns a metadata field as a string, or "" if the field is
// absent or not a string.
func (r *Resource) MetaString(key string) string {
	if s, ok := r.meta[key].(string); ok {
		return s
	}
	return ""
}

// ModifiedTime parses the node's lastModified metadata field, which the
// server emits in a handful of locale-dependent formats.
func (r *Resource) ModifiedTime() (time.Time, error) {
	raw := r.MetaString("lastModified")
	if raw == "" {
		return time.Time{}, fmt.Errorf("resource %s has no lastModified metadata", r.guid)
	}
	return dateparse.ParseAny(raw)
}

// hydrate merges newer metadata in place. Identity, node kind, and any
// cached children survive; only the metadata bag is updated.
func (r *Resource) hydrate(meta map[string]any) {
	for k, v := range meta {
		r.meta[k] = v
	}
	r.loaded = true
}

// Children returns the node's child nodes in server order, fetching them
// through the client on first call and caching the result.
func (r *Resource) Children(ctx context.Context) ([]*Resource, error) {
	return r.childList(ctx, false)
}

// RefreshChildren re-fetches the child list, replacing the cache.
func (r *Resource) RefreshChildren(ctx context.Context) ([]*Resource, error) {
	return r.childList(ctx, true)
}

func (r *Resource) childList(ctx context.Context, refresh bool) ([]*Resource, error) {
	if r.hasChildren && !refresh {
		return r.children, nil
	}

	records, err := r.client.FetchChildren(ctx, r.guid)
	if err != nil {
		return nil, err
	}

	children := make([]*Resource, 0, len(records))
	for _, rec := range records {
		children = append(children, r.client.resolveRecord(rec))
	}

	r.children = children
	r.hasChildren = true
	return r.children, nil
}

// Walk traverses the subtree rooted at this node depth-first in pre-order,
// calling fn for each container node. Child lists are fetched lazily and
// reuse the per-node cache, so re-walking an already-visited tree issues
// no further requests. An error from fn or from a child fetch aborts the
// walk. The traversal does not detect cycles; a corrupted remote
// hierarchy containing one would not terminate.
func (r *Resource) Walk(ctx context.Context, fn func(*Resource) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return err
	}
	children, err := r.Children(ctx)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := child.Walk(ctx, fn); err != nil {
			return err
		}
	}
	return nil
}

// Objects fetches and parses this document's entries via the paged
// getPage endpoint. It fails with *NotDocumentError on any other kind.
func (r *Resource) Objects(ctx context.Context, opts PageOptions) ([]DocumentObject, error) {
	if !r.IsDocument() {
		return nil, &NotDocumentError{GUID: r.guid, Kind: r.kind}
	}
	return r.client.DocumentObjects(ctx, r.guid, opts)
}
