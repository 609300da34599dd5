package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

func testGraph(t *testing.T) *hierarchy.Graph {
	t.Helper()
	g := hierarchy.BuildAndLayout(hierarchy.MappingOf(
		hierarchy.Entry{Name: "Animal", Children: []string{"Dog", "Cat"}},
	), hierarchy.DefaultSpacing)
	dog, _ := g.Node("Dog")
	dog.Position = hierarchy.Point{X: 500, Y: 40}
	dog.Manual = true
	return g
}

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	id := NewID()
	snap := New(id, "zoo.py", testGraph(t), time.Hour)
	if err := s.Put(ctx, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err = s.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.File != "zoo.py" {
		t.Errorf("File = %q", got.File)
	}
	g, err := got.GraphValue()
	if err != nil {
		t.Fatalf("GraphValue: %v", err)
	}
	dog, ok := g.Node("Dog")
	if !ok || !dog.Manual || dog.Position != (hierarchy.Point{X: 500, Y: 40}) {
		t.Errorf("Dog = %+v", dog)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("edges = %d, want 2", g.EdgeCount())
	}

	// Replace in place.
	g2 := hierarchy.BuildAndLayout(hierarchy.MappingOf(hierarchy.Entry{Name: "Solo"}), hierarchy.DefaultSpacing)
	got.Touch(g2, time.Hour)
	if err := s.Put(ctx, got); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	again, _ := s.Get(ctx, id)
	if again == nil || len(again.Graph.Nodes) != 1 || again.Graph.Nodes[0].ID != "Solo" {
		t.Errorf("replaced snapshot = %+v", again)
	}

	// Expired snapshots are invisible and cleaned up.
	old := New(NewID(), "", g2, time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Minute)
	if err := s.Put(ctx, old); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, old.ID); got != nil {
		t.Error("expired snapshot returned")
	}
	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, id); got != nil {
		t.Error("deleted snapshot returned")
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
	if s.Len() != 0 {
		t.Errorf("Len after cleanup = %d, want 0", s.Len())
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	snap := New("x", "", testGraph(t), 0)
	_ = s.Put(ctx, snap)
	snap.Graph.Nodes[0].ID = "mutated"

	got, _ := s.Get(ctx, "x")
	if got.Graph.Nodes[0].ID != "Animal" {
		t.Errorf("store shares caller slices: %q", got.Graph.Nodes[0].ID)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path = %q", s.Path())
	}
	exerciseStore(t, s)

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("files left after cleanup/delete: %d", len(entries))
	}
}

func TestFileStoreContainsIDs(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()

	if err := s.Put(ctx, New("../../escape", "", testGraph(t), 0)); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "..", "..", "escape.json")); err == nil {
		t.Error("snapshot escaped the store directory")
	}
	if got, _ := s.Get(ctx, "../../escape"); got == nil {
		t.Error("hashed ID not found again")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CLASSVIEW_TEST_MONGO")
	if uri == "" {
		t.Skip("CLASSVIEW_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "classview_test", Collection: NewID()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	defer s.coll.Drop(ctx)
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("default backend = %T", s)
	}

	s, err = Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("file backend = %T", s)
	}

	if _, err := Open(ctx, Options{Backend: "etcd"}); err == nil {
		t.Error("unknown backend accepted")
	}
	if _, err := Open(ctx, Options{Backend: BackendMongo}); err == nil {
		t.Error("mongo without uri accepted")
	}
}
