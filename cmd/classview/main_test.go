package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/matzehuels/classview/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", fmt.Errorf("fetch: %w", context.Canceled), 130},
		{"invalid input", apperrors.New(apperrors.ErrCodeInvalidFormat, "bad format"), 2},
		{"backend down", apperrors.New(apperrors.ErrCodeNetwork, "unreachable"), 1},
		{"plain error", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
