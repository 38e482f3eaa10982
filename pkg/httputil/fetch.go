package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/archscape/pkg/observability"
)

// maxBody bounds fetched documents.
const maxBody = 8 << 20

// Fetcher downloads small documents over HTTP with retries and an optional
// on-disk cache. When the origin fails, an expired cache entry is served
// instead of the error.
type Fetcher struct {
	// Client defaults to a client with a 30 second timeout.
	Client *http.Client
	// Cache stores bodies by URL. Nil disables caching.
	Cache *Cache
	// Attempts and Delay configure [Retry]; zero means 3 and 1 second.
	Attempts int
	Delay    time.Duration
	// UserAgent is sent with every request when set.
	UserAgent string
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetch returns the body of a GET request to url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var stale []byte
	if f.Cache != nil {
		data, ok, err := f.Cache.Get(url)
		switch {
		case ok:
			return data, nil
		case errors.Is(err, ErrExpired):
			stale = data
		}
	}

	attempts, delay := f.Attempts, f.Delay
	if attempts == 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = time.Second
	}

	var body []byte
	err := Retry(ctx, attempts, delay, func() error {
		var err error
		body, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		if stale != nil {
			return stale, nil
		}
		return nil, err
	}

	if f.Cache != nil {
		_ = f.Cache.Set(url, body)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = defaultClient
	}
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, Retryable(fmt.Errorf("read body: %w", err))
	}
	if err := CheckStatus(resp, body); err != nil {
		return nil, err
	}
	return body, nil
}
