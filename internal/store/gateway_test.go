package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// countingStore wraps a MemoryStore and counts Get round trips.
type countingStore struct {
	*MemoryStore
	gets int
}

func (s *countingStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	s.gets++
	return s.MemoryStore.Get(ctx, collection, id)
}

// failingStore rejects all writes.
type failingStore struct {
	*MemoryStore
}

var errStoreDown = errors.New("store down")

func (s *failingStore) Set(context.Context, string, string, map[string]any, interfaces.SetOptions) error {
	return errStoreDown
}

func TestGatewayReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{MemoryStore: NewMemoryStore()}
	gateway := NewGateway(backend, WithGatewayCache(NewMemoryCache()))

	if err := gateway.SaveOrCreatePage(ctx, "about-me", map[string]any{"title": "Über mich"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for i := 0; i < 3; i++ {
		doc, err := gateway.LoadPage(ctx, "about-me")
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if doc["title"] != "Über mich" {
			t.Fatalf("unexpected doc: %v", doc)
		}
	}

	if backend.gets != 0 {
		t.Fatalf("expected cached reads after write, store saw %d gets", backend.gets)
	}
}

func TestGatewayForceRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{MemoryStore: NewMemoryStore()}
	gateway := NewGateway(backend, WithGatewayCache(NewMemoryCache()))

	if err := gateway.SaveOrCreatePage(ctx, "about-me", map[string]any{"title": "old"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Simulate an out-of-band write the cache has not seen.
	mustSet(t, backend.MemoryStore, CollectionPages, "about-me", map[string]any{"title": "new"})

	doc, err := gateway.LoadPage(ctx, "about-me", ForceRefresh())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc["title"] != "new" {
		t.Fatalf("force refresh returned stale doc: %v", doc)
	}
	if backend.gets != 1 {
		t.Fatalf("expected exactly one store get, saw %d", backend.gets)
	}

	// The refresh repopulates the cache.
	if doc, err := gateway.LoadPage(ctx, "about-me"); err != nil || doc["title"] != "new" {
		t.Fatalf("expected refreshed cache entry, got %v, %v", doc, err)
	}
	if backend.gets != 1 {
		t.Fatalf("expected cached follow-up read, saw %d gets", backend.gets)
	}
}

func TestGatewayFailedWriteLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	seeded := NewMemoryStore()
	mustSet(t, seeded, CollectionPages, "about-me", map[string]any{"title": "stored"})

	cache := NewMemoryCache()
	gateway := NewGateway(&failingStore{MemoryStore: seeded}, WithGatewayCache(cache))

	// Prime the cache through a read.
	if _, err := gateway.LoadPage(ctx, "about-me"); err != nil {
		t.Fatalf("prime read: %v", err)
	}

	if err := gateway.SaveOrCreatePage(ctx, "about-me", map[string]any{"title": "rejected"}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected write failure, got %v", err)
	}

	doc, err := gateway.LoadPage(ctx, "about-me")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc["title"] != "stored" {
		t.Fatalf("failed write reached the cache: %v", doc)
	}
}

// deniedStore rejects all writes with the permission sentinel, the way a
// host-provided remote store would.
type deniedStore struct {
	*MemoryStore
}

func (s *deniedStore) Set(ctx context.Context, collection, id string, doc map[string]any, opts interfaces.SetOptions) error {
	return fmt.Errorf("%w: %s/%s", interfaces.ErrPermissionDenied, collection, id)
}

func TestGatewaySurfacesPermissionDenied(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(&deniedStore{MemoryStore: NewMemoryStore()}, WithGatewayCache(NewMemoryCache()))

	err := gateway.SaveOrCreatePage(ctx, "about-me", map[string]any{"title": "Über mich"})
	if !interfaces.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	// The rejected write must not leave anything in the cache.
	if _, err := gateway.LoadPage(ctx, "about-me"); !interfaces.IsNotFound(err) {
		t.Fatalf("expected not found after rejected write, got %v", err)
	}
}

func TestGatewayDeletePage(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewMemoryStore(), WithGatewayCache(NewMemoryCache()))

	if err := gateway.SaveOrCreatePage(ctx, "gone", map[string]any{"title": "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := gateway.DeletePage(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := gateway.DeletePage(ctx, "gone"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := gateway.LoadPage(ctx, "gone"); !interfaces.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGatewayPublishDraftToMain(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	gateway := NewGateway(NewMemoryStore(),
		WithGatewayCache(NewMemoryCache()),
		WithGatewayClock(func() time.Time { return now }),
	)

	draft := map[string]any{
		"about":     map[string]any{"text": "<p>Hallo</p>"},
		"offerings": map[string]any{"text": "<p>Angebote</p>"},
		"contact":   map[string]any{"email": "mail@example.com"},
	}
	if err := gateway.SaveMainContent(ctx, VariantDraft, draft); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	published, err := gateway.PublishDraftToMain(ctx)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published["publishedAt"] != "2024-06-01T10:30:00Z" {
		t.Fatalf("unexpected publish timestamp: %v", published["publishedAt"])
	}

	main, err := gateway.LoadMainContent(ctx, VariantMain)
	if err != nil {
		t.Fatalf("load main: %v", err)
	}
	if main["about"].(map[string]any)["text"] != "<p>Hallo</p>" {
		t.Fatalf("draft content not copied: %v", main)
	}

	// The draft itself is unchanged.
	reloaded, err := gateway.LoadMainContent(ctx, VariantDraft)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if _, stamped := reloaded["publishedAt"]; stamped {
		t.Fatalf("publish mutated the draft: %v", reloaded)
	}
}

func TestGatewayRejectsInvalidVariant(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewMemoryStore())

	if _, err := gateway.LoadMainContent(ctx, Variant("staging")); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected variant error, got %v", err)
	}
	if err := gateway.SaveMainContent(ctx, Variant(""), nil); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected variant error, got %v", err)
	}
}

func TestGatewayWordCloudRoundTrip(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewMemoryStore(), WithGatewayCache(NewMemoryCache()))

	doc := map[string]any{"words": []any{
		map[string]any{"text": "Go", "weight": float64(9), "link": "#"},
	}}
	if err := gateway.SaveWordCloud(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := gateway.LoadWordCloud(ctx, ForceRefresh())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	words := loaded["words"].([]any)
	if len(words) != 1 || words[0].(map[string]any)["text"] != "Go" {
		t.Fatalf("unexpected word cloud doc: %v", loaded)
	}
}

func TestGatewayWithoutCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{MemoryStore: NewMemoryStore()}
	gateway := NewGateway(backend)

	if err := gateway.SaveOrCreatePage(ctx, "p", map[string]any{"title": "t"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := gateway.LoadPage(ctx, "p"); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if backend.gets != 2 {
		t.Fatalf("expected direct store reads without cache, saw %d", backend.gets)
	}
}
