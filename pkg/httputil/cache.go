package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] together with the stale body when
// an entry is older than the TTL, so that callers can fall back to it while
// the origin is down.
var ErrExpired = errors.New("cache entry expired")

// Cache keeps response bodies on disk, one file per key named by the
// key's SHA-256. Age is the file's modification time; a zero TTL never
// expires. [Cache.Namespace] returns a view on a subdirectory, so unrelated
// callers can share a root without key clashes.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache opens a Cache rooted at dir, or at os.UserCacheDir()/archscape/http
// when dir is empty.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "archscape", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) Dir() string        { return c.dir }
func (c *Cache) TTL() time.Duration { return c.ttl }

// Namespace returns a Cache with the same TTL whose entries live in the
// subdirectory name. Names are used as single path elements; anything
// else is hashed.
func (c *Cache) Namespace(name string) *Cache {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		name = "ns-" + hashName(name)[:16]
	}
	return &Cache{dir: filepath.Join(c.dir, name), ttl: c.ttl}
}

// Get looks key up. The results are
//
//	data, true, nil         fresh entry
//	nil, false, nil         no entry
//	data, false, ErrExpired stale entry
//	nil, false, err         read failure
func (c *Cache) Get(key string) ([]byte, bool, error) {
	path := c.path(key)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil && info.Size() > 0 {
		return nil, false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return data, false, ErrExpired
	}
	return data, true, nil
}

// Set replaces the entry under key through a temporary file, which also
// resets its age.
func (c *Cache) Set(key string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".set-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, hashName(key))
}

func hashName(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
