// Package cache provides the optional response cache the client consults
// before hitting the network. Implementations: Null (no caching), Memory
// (process-local with TTL), and File (afero-backed, survives restarts).
package cache

import "time"

// Cache stores raw response bodies keyed by request URL + payload.
// A zero TTL means the entry does not expire.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte, ttl time.Duration)
	Invalidate(key string)
}

// Null is a Cache that stores nothing.
type Null struct{}

var _ Cache = Null{}

// Get always misses.
func (Null) Get(string) ([]byte, bool) { return nil, false }

// Put discards the value.
func (Null) Put(string, []byte, time.Duration) {}

// Invalidate does nothing.
func (Null) Invalidate(string) {}
