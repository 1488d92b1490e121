package cache

import (
	"context"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entryExt marks cache entry files; Clear removes only these.
const entryExt = ".blob"

// headerSize is the expiry stamp written before each payload: unix
// nanoseconds, big endian, zero for no expiry.
const headerSize = 8

// FileCache stores each entry as a file under dir, sharded by the first
// two hex characters of the hashed key. Payloads are stored raw behind a
// fixed-size expiry header, so image bytes are not re-encoded.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache rooted at dir, creating it if
// needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the payload stored under key. Truncated or expired entries
// are removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case len(raw) < headerSize:
		_ = os.Remove(path)
		return nil, false, nil
	}

	if exp := int64(binary.BigEndian.Uint64(raw[:headerSize])); exp != 0 && time.Now().UnixNano() > exp {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[headerSize:], true, nil
}

// Set stores data under key. The entry is written to a temporary file and
// renamed into place, so readers never see a partial entry.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var header [headerSize]byte
	binary.BigEndian.PutUint64(header[:], uint64(exp))
	if _, err := tmp.Write(header[:]); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Stats summarizes the entries on disk.
type Stats struct {
	Entries int
	Bytes   int64
}

// Stats counts entries and their total size, headers included. Expired
// entries still count until a Get removes them.
func (c *FileCache) Stats() (Stats, error) {
	var st Stats
	err := c.walkEntries(func(_ string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		st.Entries++
		st.Bytes += info.Size()
		return nil
	})
	return st, err
}

// Clear removes every entry and any shard directory left empty, keeping
// the root. It returns the number of entries removed.
func (c *FileCache) Clear() (int, error) {
	var entries []string
	err := c.walkEntries(func(path string, _ fs.DirEntry) error {
		entries = append(entries, path)
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i, path := range entries {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return i, err
		}
	}

	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return len(entries), nil
	}
	if err != nil {
		return len(entries), err
	}
	for _, s := range shards {
		if s.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, s.Name())) // fails if not empty
		}
	}
	return len(entries), nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// walkEntries calls fn for each entry file. A missing root has no entries.
func (c *FileCache) walkEntries(fn func(path string, d fs.DirEntry) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), entryExt) {
			return nil
		}
		return fn(path, d)
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

var _ Cache = (*FileCache)(nil)
