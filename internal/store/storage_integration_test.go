package store_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
	"github.com/seitenwerk/seitenwerk/pkg/testsupport"
)

func TestBunStore_WithSQLiteAndCache(t *testing.T) {
	ctx := context.Background()

	bunDB, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	if _, err := bunDB.NewCreateTable().Model((*store.Document)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create documents table: %v", err)
	}

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	docs := store.NewBunStoreWithCache(bunDB, cacheService, keySerializer)

	doc := map[string]any{
		"id":         "about-me",
		"title":      "Über mich",
		"templateId": "basic",
		"data":       map[string]any{"title": "Über mich"},
	}
	if err := docs.Set(ctx, "pages", "about-me", doc, interfaces.SetOptions{}); err != nil {
		t.Fatalf("set: %v", err)
	}

	loaded, err := docs.Get(ctx, "pages", "about-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded["title"] != "Über mich" || loaded["templateId"] != "basic" {
		t.Fatalf("unexpected document: %v", loaded)
	}

	// Overwrite keeps the same row; the doc id is deterministic.
	doc["title"] = "Über uns"
	if err := docs.Set(ctx, "pages", "about-me", doc, interfaces.SetOptions{}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	loaded, err = docs.Get(ctx, "pages", "about-me")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if loaded["title"] != "Über uns" {
		t.Fatalf("overwrite not visible: %v", loaded)
	}

	if err := docs.Set(ctx, "pages", "about-me", map[string]any{"subtitle": "Neu"}, interfaces.SetOptions{Merge: true}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	loaded, err = docs.Get(ctx, "pages", "about-me")
	if err != nil {
		t.Fatalf("get after merge: %v", err)
	}
	if loaded["title"] != "Über uns" || loaded["subtitle"] != "Neu" {
		t.Fatalf("merge result wrong: %v", loaded)
	}

	if err := docs.Set(ctx, "pages", "contact", map[string]any{"id": "contact", "title": "Kontakt"}, interfaces.SetOptions{}); err != nil {
		t.Fatalf("set second page: %v", err)
	}

	listed, err := docs.Query(ctx, "pages", interfaces.QueryOptions{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(listed))
	}
	if listed[0]["id"] != "about-me" || listed[1]["id"] != "contact" {
		t.Fatalf("unexpected query order: %v", listed)
	}

	if err := docs.Delete(ctx, "pages", "contact"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := docs.Delete(ctx, "pages", "contact"); err != nil {
		t.Fatalf("repeat delete should be a no-op: %v", err)
	}
	if _, err := docs.Get(ctx, "pages", "contact"); !interfaces.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// Collections are isolated.
	if _, err := docs.Get(ctx, "settings", "about-me"); !interfaces.IsNotFound(err) {
		t.Fatalf("expected collection isolation, got %v", err)
	}
}
