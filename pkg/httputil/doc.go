// Package httputil provides HTTP helpers for the analysis backend client.
//
// # Retry
//
// A [Backoff] re-runs an operation with a doubling delay, but only for
// errors the caller marked as transient by wrapping them in
// [RetryableError]. The backend client marks network errors, 429 and 5xx
// replies; a 401 or a 404 is returned immediately:
//
//	err := httputil.DefaultBackoff.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    if resp.StatusCode == http.StatusServiceUnavailable {
//	        after := httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now())
//	        return &httputil.RetryableError{Err: errUnavailable, After: after}
//	    }
//	    ...
//	})
//
// A server-requested wait longer than the schedule's replaces it, up to
// MaxDelay.
package httputil
