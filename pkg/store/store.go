// Package store persists visualization snapshots.
//
// A [Snapshot] is the positioned graph of one session, manual node
// positions included, so a session can be restored after a server restart
// or on another instance. Backends:
//   - memory: in-process map for development and tests
//   - file: one JSON file per snapshot, for the CLI
//   - mongo: a MongoDB collection for multi-instance deployments
//
// # Usage
//
//	st, err := store.Open(ctx, store.Options{Backend: store.BackendMongo, Mongo: mongoOpts})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	snap := store.New(id, "models.py", graph, store.DefaultTTL)
//	if err := st.Put(ctx, snap); err != nil {
//	    return err
//	}
//
//	snap, err = st.Get(ctx, id)
//	if snap == nil {
//	    // Never saved, deleted, or expired
//	}
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

// DefaultTTL is how long a snapshot lives after its last update.
const DefaultTTL = 7 * 24 * time.Hour

// Snapshot is the persisted state of one visualization session.
type Snapshot struct {
	ID        string              `json:"id" bson:"_id"`
	File      string              `json:"file,omitempty" bson:"file,omitempty"`
	Graph     hierarchy.GraphData `json:"graph" bson:"graph"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time           `json:"expires_at" bson:"expires_at"`
}

// New captures g as a snapshot that expires ttl from now. A zero ttl means
// [DefaultTTL].
func New(id, file string, g *hierarchy.Graph, ttl time.Duration) *Snapshot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	return &Snapshot{
		ID:        id,
		File:      file,
		Graph:     g.Data(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// NewID returns a random snapshot ID.
func NewID() string {
	return uuid.NewString()
}

// IsExpired reports whether the snapshot has outlived its TTL.
func (s *Snapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records an update to g and extends the expiry by ttl.
func (s *Snapshot) Touch(g *hierarchy.Graph, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	s.Graph = g.Data()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// GraphValue rebuilds the stored graph.
func (s *Snapshot) GraphValue() (*hierarchy.Graph, error) {
	g, err := hierarchy.FromData(s.Graph)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.ID, err)
	}
	return g, nil
}

// Store is the interface for snapshot backends.
type Store interface {
	// Get retrieves a snapshot by ID.
	// Returns nil, nil if it doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Put creates or replaces a snapshot.
	Put(ctx context.Context, snap *Snapshot) error

	// Delete removes a snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired snapshots (may be a no-op when the backend
	// expires documents itself).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
