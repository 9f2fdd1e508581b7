// Package httputil fetches remote assets with caching and retry.
//
// The browser renderer needs the lottie-web player script. Downloading it on
// every run would make exports depend on the network; [Fetcher] keeps a copy
// in a [cache.Cache] and only goes to the network on a miss.
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures
// (network errors and 5xx responses). Errors are marked retryable with
// [RetryableError]; anything else fails immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// [cache.Cache]: github.com/matzehuels/lottieframes/pkg/cache.Cache
package httputil
