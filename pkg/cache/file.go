package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

type fileEntry struct {
	Value   []byte    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// File is a Cache persisted on an afero filesystem, one JSON file per
// entry named by the SHA-256 of the key. Use afero.NewOsFs for a real
// on-disk cache or afero.NewMemMapFs in tests. Read and write errors are
// treated as cache misses; a cache never fails a request.
type File struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

var _ Cache = (*File)(nil)

// NewFile creates a file cache rooted at dir on the given filesystem.
func NewFile(fs afero.Fs, dir string) (*File, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{fs: fs, dir: dir, now: time.Now}, nil
}

// Get implements Cache.
func (f *File) Get(key string) ([]byte, bool) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		return nil, false
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if !entry.Expires.IsZero() && f.now().After(entry.Expires) {
		_ = f.fs.Remove(f.path(key))
		return nil, false
	}
	return entry.Value, true
}

// Put implements Cache.
func (f *File) Put(key string, value []byte, ttl time.Duration) {
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.Expires = f.now().Add(ttl)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = afero.WriteFile(f.fs, f.path(key), data, 0o644)
}

// Invalidate implements Cache.
func (f *File) Invalidate(key string) {
	_ = f.fs.Remove(f.path(key))
}

func (f *File) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".json")
}
