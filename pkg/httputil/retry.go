package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryableError marks a transient failure that [Backoff.Do] may retry.
// After, when positive, is the wait the server asked for (Retry-After).
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, is a
// [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a retry schedule with a doubling delay.
type Backoff struct {
	Attempts int           // Total attempts; below 1 means a single attempt
	Delay    time.Duration // Wait after the first failure
	MaxDelay time.Duration // Upper bound for any wait; zero means unbounded
}

// DefaultBackoff is the schedule used for the analysis backend.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// wait returns the pause after failed attempt i (zero-based). A longer
// server-requested wait wins over the schedule.
func (b Backoff) wait(i int, err error) time.Duration {
	d := b.Delay << i
	var re *RetryableError
	if errors.As(err, &re) && re.After > d {
		d = re.After
	}
	if b.MaxDelay > 0 && d > b.MaxDelay {
		d = b.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, fails with an error that is not retryable,
// or runs out of attempts, in which case the last error is returned.
// Cancelling ctx during a wait returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(b.wait(i, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// Retry runs fn with a [Backoff] of the given attempts and initial delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryAfter parses a Retry-After header value, given either in seconds or
// as an HTTP date relative to now. Missing, malformed and past values
// yield zero.
func RetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}
