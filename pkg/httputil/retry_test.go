package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestBackoffDo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", 0, true, 3, 1, false},
		{"succeeds on last attempt", 2, true, 3, 3, false},
		{"attempts exhausted", 5, true, 3, 3, true},
		{"permanent failure", 5, false, 3, 1, true},
		{"zero attempts still runs once", 0, true, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			b := Backoff{Attempts: tt.attempts, Delay: time.Millisecond}
			err := b.Do(ctx, func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.retryable {
					return &RetryableError{Err: errTransient}
				}
				return errTransient
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if err != nil && !errors.Is(err, errTransient) {
				t.Errorf("err = %v, want wrapping %v", err, errTransient)
			}
		})
	}
}

func TestBackoffCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errTransient}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBackoffWait(t *testing.T) {
	b := Backoff{Delay: time.Second, MaxDelay: 5 * time.Second}
	plain := &RetryableError{Err: errTransient}

	tests := []struct {
		name string
		i    int
		err  error
		want time.Duration
	}{
		{"first", 0, plain, time.Second},
		{"doubles", 2, plain, 4 * time.Second},
		{"capped", 4, plain, 5 * time.Second},
		{"server asks longer", 0, &RetryableError{Err: errTransient, After: 3 * time.Second}, 3 * time.Second},
		{"server asks shorter", 1, &RetryableError{Err: errTransient, After: time.Millisecond}, 2 * time.Second},
		{"server wait capped", 0, &RetryableError{Err: errTransient, After: time.Minute}, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.wait(tt.i, tt.err); got != tt.want {
				t.Errorf("wait(%d) = %v, want %v", tt.i, got, tt.want)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"7", 7 * time.Second},
		{" 2 ", 2 * time.Second},
		{"-3", 0},
		{"soon", 0},
		{"Sat, 01 Mar 2025 12:00:30 GMT", 30 * time.Second},
		{"Sat, 01 Mar 2025 11:00:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := RetryAfter(tt.value, now); got != tt.want {
			t.Errorf("RetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	err := &RetryableError{Err: errTransient}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsRetryable(err) || IsRetryable(errTransient) {
		t.Error("IsRetryable mismatch")
	}
	if !IsRetryable(errors.Join(errors.New("wrapped"), err)) {
		t.Error("wrapped RetryableError not detected")
	}
}
