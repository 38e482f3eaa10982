package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/archscape/pkg/buildinfo"
	"github.com/matzehuels/archscape/pkg/cache"
	"github.com/matzehuels/archscape/pkg/httputil"
	"github.com/matzehuels/archscape/pkg/publish"
	"github.com/matzehuels/archscape/pkg/style"
)

// themeTTL is how long a downloaded theme is used before it is fetched
// again.
const themeTTL = 24 * time.Hour

// CacheDir returns the file cache directory, defaulting to
// ~/.cache/archscape.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(base, "archscape"), nil
}

// OpenCache opens the configured artifact cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.URL, c.Cache.Prefix)
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(filepath.Join(dir, "artifacts"))
	}
}

// Publishers returns the configured remote publishers in a fixed order:
// the workspace API, then MongoDB.
func (c *Config) Publishers() []publish.Publisher {
	var out []publish.Publisher
	if api := c.Publish.API; api != nil {
		out = append(out, &publish.WorkspaceAPI{
			URL:    api.URL,
			ID:     api.ID,
			Key:    api.Key,
			Secret: api.Secret,
		})
	}
	if m := c.Publish.Mongo; m != nil {
		out = append(out, &publish.Mongo{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
		})
	}
	return out
}

// LoadThemes reads the configured themes in order. URLs are fetched through
// an HTTP cache under the cache directory so that offline runs reuse the
// last download.
func (c *Config) LoadThemes(ctx context.Context) ([]style.Theme, error) {
	if len(c.Themes) == 0 {
		return nil, nil
	}
	var fetcher *httputil.Fetcher
	out := make([]style.Theme, 0, len(c.Themes))
	for _, src := range c.Themes {
		if !isURL(src) {
			t, err := style.LoadTheme(src)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
			continue
		}
		if fetcher == nil {
			f, err := c.themeFetcher()
			if err != nil {
				return nil, err
			}
			fetcher = f
		}
		data, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch theme: %w", err)
		}
		t, err := style.ReadTheme(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Config) themeFetcher() (*httputil.Fetcher, error) {
	f := &httputil.Fetcher{UserAgent: buildinfo.UserAgent()}
	if c.Cache.Backend == CacheNone {
		return f, nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return nil, err
	}
	hc, err := httputil.NewCache(filepath.Join(dir, "http"), themeTTL)
	if err != nil {
		return nil, err
	}
	f.Cache = hc.Namespace("themes")
	return f, nil
}
