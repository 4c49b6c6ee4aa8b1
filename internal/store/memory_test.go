package store

import (
	"context"
	"errors"
	"testing"

	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "pages", "missing")
	if !interfaces.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	var notFound *interfaces.DocumentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DocumentNotFoundError, got %T", err)
	}
	if notFound.Collection != "pages" || notFound.ID != "missing" {
		t.Fatalf("unexpected address: %s/%s", notFound.Collection, notFound.ID)
	}
}

func TestMemoryStoreSetGetClones(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := map[string]any{"title": "Original", "nested": map[string]any{"k": "v"}}
	if err := s.Set(ctx, "pages", "about-me", doc, interfaces.SetOptions{}); err != nil {
		t.Fatalf("set: %v", err)
	}

	doc["title"] = "Mutated after write"

	loaded, err := s.Get(ctx, "pages", "about-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded["title"] != "Original" {
		t.Fatalf("store aliased caller memory: %v", loaded["title"])
	}

	loaded["nested"].(map[string]any)["k"] = "mutated"
	again, _ := s.Get(ctx, "pages", "about-me")
	if again["nested"].(map[string]any)["k"] != "v" {
		t.Fatalf("store returned shared nested state")
	}
}

func TestMemoryStoreMerge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustSet(t, s, "settings", "global", map[string]any{"a": "1", "b": "2"})
	if err := s.Set(ctx, "settings", "global", map[string]any{"b": "3"}, interfaces.SetOptions{Merge: true}); err != nil {
		t.Fatalf("merge set: %v", err)
	}

	doc, err := s.Get(ctx, "settings", "global")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["a"] != "1" || doc["b"] != "3" {
		t.Fatalf("unexpected merged doc: %v", doc)
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustSet(t, s, "pages", "one", map[string]any{"id": "one"})
	if err := s.Delete(ctx, "pages", "one"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "pages", "one"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := s.Get(ctx, "pages", "one"); !interfaces.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestMemoryStoreQueryOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustSet(t, s, "pages", "b", map[string]any{"id": "b", "updated": "2024-02-01"})
	mustSet(t, s, "pages", "a", map[string]any{"id": "a", "updated": "2024-03-01"})
	mustSet(t, s, "pages", "c", map[string]any{"id": "c", "updated": "2024-01-01"})

	docs, err := s.Query(ctx, "pages", interfaces.QueryOptions{OrderBy: "updated", Descending: true, Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0]["id"] != "a" || docs[1]["id"] != "b" {
		t.Fatalf("unexpected order: %v, %v", docs[0]["id"], docs[1]["id"])
	}
}

func TestMemoryStoreQueryDefaultOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustSet(t, s, "pages", "zeta", map[string]any{"id": "zeta"})
	mustSet(t, s, "pages", "alpha", map[string]any{"id": "alpha"})

	docs, err := s.Query(ctx, "pages", interfaces.QueryOptions{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if docs[0]["id"] != "alpha" || docs[1]["id"] != "zeta" {
		t.Fatalf("expected id order, got %v", docs)
	}
}

func mustSet(t *testing.T, s interfaces.DocumentStore, collection, id string, doc map[string]any) {
	t.Helper()
	if err := s.Set(context.Background(), collection, id, doc, interfaces.SetOptions{}); err != nil {
		t.Fatalf("set %s/%s: %v", collection, id, err)
	}
}
