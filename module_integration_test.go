package seitenwerk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	seitenwerk "github.com/seitenwerk/seitenwerk"
	"github.com/seitenwerk/seitenwerk/internal/di"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/pkg/testsupport"
)

func newBunModule(t *testing.T) *seitenwerk.Module {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)
	if _, err := bunDB.NewCreateTable().Model((*store.Document)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create documents table: %v", err)
	}

	cfg := seitenwerk.DefaultConfig()
	cfg.SiteName = "Praxis Beispiel"

	module, err := seitenwerk.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModulePageLifecycleWithBunAndCache(t *testing.T) {
	ctx := context.Background()
	module := newBunModule(t)

	page, err := module.Pages().Create(ctx, seitenwerk.CreatePageRequest{
		ID:         "about-me",
		Title:      "Über mich",
		TemplateID: "basic",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	session := module.NewEditSession()
	defer session.Close()

	form, err := session.Open(ctx, page.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	values := form.Values()
	values.Set("subtitle", "Wer ich bin")
	if _, err := session.Save(ctx, values); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, err := module.Pages().Get(ctx, "about-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Data["subtitle"] != "Wer ich bin" {
		t.Fatalf("edit did not persist: %v", stored.Data)
	}

	html, err := session.Preview(ctx, values)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if html == "" {
		t.Fatal("expected preview markup")
	}

	if err := module.Pages().Delete(ctx, "about-me"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var notFound *pages.NotFoundError
	if _, err := module.Pages().Get(ctx, "about-me"); !errors.As(err, &notFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestModuleMainContentPublish(t *testing.T) {
	ctx := context.Background()
	module := newBunModule(t)

	draft, err := module.MainContent().Load(ctx, seitenwerk.VariantDraft)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	draft.About.Title = "Über mich"
	draft.About.Text = "Hallo."
	if err := module.MainContent().Save(ctx, seitenwerk.VariantDraft, draft); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	if _, err := module.MainContent().Publish(ctx); err != nil {
		t.Fatalf("publish: %v", err)
	}

	live, err := module.MainContent().Load(ctx, seitenwerk.VariantMain)
	if err != nil {
		t.Fatalf("load main: %v", err)
	}
	if live.About.Title != "Über mich" {
		t.Fatalf("draft not promoted: %+v", live)
	}
	if live.PublishedAt.IsZero() {
		t.Fatal("expected publish timestamp")
	}
}

func TestModuleWordCloudRoundTrip(t *testing.T) {
	ctx := context.Background()
	module := newBunModule(t)

	saved, err := module.WordCloud().Save(ctx, []seitenwerk.WordCloudEntry{
		{Text: "Achtsamkeit", Weight: 7},
		{Text: "Balance", Weight: 4},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saved) != 2 || saved[0].Link != "#" {
		t.Fatalf("unexpected entries: %+v", saved)
	}

	loaded, err := module.WordCloud().Load(ctx, store.ForceRefresh())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Text != "Achtsamkeit" {
		t.Fatalf("unexpected entries after refresh: %+v", loaded)
	}
}
