package source

import (
	"context"
	"errors"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

var (
	// ErrNotFound is returned when the backend has no analysis for a file.
	ErrNotFound = errors.New("file not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned when the backend rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Source resolves the class hierarchy of an analyzed file.
type Source interface {
	Classes(ctx context.Context, file string) (*hierarchy.Mapping, error)
}

// Func adapts an ordinary function to the [Source] interface.
type Func func(ctx context.Context, file string) (*hierarchy.Mapping, error)

// Classes calls f(ctx, file).
func (f Func) Classes(ctx context.Context, file string) (*hierarchy.Mapping, error) {
	return f(ctx, file)
}
