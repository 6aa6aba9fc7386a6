// Package httputil provides the HTTP plumbing shared by every remote fetch
// in moodmagic: font stylesheets, font binaries, board images and the
// generation endpoint.
//
// # Overview
//
//   - [Client]: GET with caching, retry and status mapping
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Client.Fetch] consults a [cache.Cache] before going to the network and
// stores successful responses with the caller-provided TTL. Cache failures
// are never fatal; a broken cache only costs a refetch.
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried: transport failures
// and 5xx responses. 4xx responses fail immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest()
//	})
package httputil
