// Package httputil provides the HTTP plumbing shared by theme fetching and
// the publishers.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff, retrying only errors
// wrapped with [Retryable]. [CheckStatus] turns non-2xx responses into a
// [StatusError] and marks 5xx and 429 responses as retryable:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    body, _ := io.ReadAll(resp.Body)
//	    return httputil.CheckStatus(resp, body)
//	})
//
// # Caching
//
// [Cache] keeps response bodies on disk (~/.cache/archscape/http by
// default) with a TTL. [Fetcher] combines both: it serves fresh entries
// from the cache, fetches with retries otherwise and falls back to an
// expired entry when the origin is down.
package httputil
