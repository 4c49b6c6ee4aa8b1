package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/templates"
)

func newSessionFixture(t *testing.T, opts ...SessionOption) (*Session, pages.Service) {
	t.Helper()

	gateway := store.NewGateway(store.NewMemoryStore(), store.WithGatewayCache(store.NewMemoryCache()))
	registry := templates.Builtin()
	pageService := pages.NewService(gateway, registry,
		pages.WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)

	if _, err := pageService.Create(context.Background(), pages.CreateRequest{
		ID: "about-me", Title: "Über mich", TemplateID: "basic",
	}); err != nil {
		t.Fatalf("seed page: %v", err)
	}

	session := NewSession(pageService, registry, opts...)
	t.Cleanup(session.Close)
	return session, pageService
}

func TestOpenBuildsFormAndStartsClean(t *testing.T) {
	ctx := context.Background()
	session, _ := newSessionFixture(t)

	form, err := session.Open(ctx, "about-me")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if form.TemplateID != "basic" || len(form.Controls) != 3 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if session.Coordinator().State() != StateClean {
		t.Fatalf("fresh session should be clean")
	}
	if session.Current().ID != "about-me" {
		t.Fatalf("unexpected current page: %+v", session.Current())
	}
}

func TestRichTextEditMarksDirty(t *testing.T) {
	ctx := context.Background()
	session, _ := newSessionFixture(t)

	if _, err := session.Open(ctx, "about-me"); err != nil {
		t.Fatalf("open: %v", err)
	}

	session.mounts.Get("content").SetHTML("<p>geändert</p>")

	if session.Coordinator().State() != StateDirty {
		t.Fatalf("editor change should mark the session dirty")
	}
}

func TestSavePersistsEditorContentAndCleans(t *testing.T) {
	ctx := context.Background()
	session, pageService := newSessionFixture(t)

	form, err := session.Open(ctx, "about-me")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	session.mounts.Get("content").SetHTML("<p>Neuer Inhalt</p>")

	saved, err := session.Save(ctx, form.Values())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Data["content"] != "<p>Neuer Inhalt</p>" {
		t.Fatalf("editor content not collected: %v", saved.Data)
	}
	if session.Coordinator().State() != StateClean {
		t.Fatalf("successful save should be clean")
	}

	stored, err := pageService.Get(ctx, "about-me", store.ForceRefresh())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Data["content"] != "<p>Neuer Inhalt</p>" {
		t.Fatalf("save did not persist: %v", stored.Data)
	}
}

func TestSwitchingDirtySessionIsGuarded(t *testing.T) {
	ctx := context.Background()

	decline := ConfirmerFunc(func(context.Context, string) (bool, error) { return false, nil })
	session, pageService := newSessionFixture(t, WithSessionCoordinator(NewCoordinator(WithConfirmer(decline))))

	if _, err := pageService.Create(ctx, pages.CreateRequest{ID: "contact", Title: "Kontakt", TemplateID: "contact"}); err != nil {
		t.Fatalf("create second page: %v", err)
	}
	if _, err := session.Open(ctx, "about-me"); err != nil {
		t.Fatalf("open: %v", err)
	}

	session.MarkDirty()

	if _, err := session.Open(ctx, "contact"); !errors.Is(err, ErrActionDeclined) {
		t.Fatalf("expected declined switch, got %v", err)
	}
	if session.Current().ID != "about-me" {
		t.Fatalf("declined switch must keep current page, got %s", session.Current().ID)
	}
	if session.Coordinator().State() != StateDirty {
		t.Fatalf("declined switch must stay dirty")
	}
}

func TestPreviewRendersCollectedValues(t *testing.T) {
	ctx := context.Background()
	session, _ := newSessionFixture(t)

	form, err := session.Open(ctx, "about-me")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	values := form.Values()
	values.Set("subtitle", "Neu getippt")

	html, err := session.Preview(ctx, values)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if want := `<h2 class="subtitle">Neu getippt</h2>`; !strings.Contains(html, want) {
		t.Fatalf("preview missing %q:\n%s", want, html)
	}
}

func TestGalleryAddThenRemoveLeavesEmptyList(t *testing.T) {
	ctx := context.Background()
	session, pageService := newSessionFixture(t)

	if _, err := pageService.Create(ctx, pages.CreateRequest{ID: "fotos", Title: "Fotos", TemplateID: "gallery"}); err != nil {
		t.Fatalf("create gallery page: %v", err)
	}
	if _, err := session.Open(ctx, "fotos"); err != nil {
		t.Fatalf("open: %v", err)
	}

	form, err := session.AddGalleryImage("images", templates.ImageRef{URL: "x.png"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(form.HTML(), `name="images.caption.0"`) {
		t.Fatalf("rebuilt form missing the new item's caption input")
	}
	if session.Coordinator().State() != StateDirty {
		t.Fatalf("gallery add should mark the session dirty")
	}

	if _, err := session.RemoveGalleryImage("images", 0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items := session.Current().Data["images"].([]templates.GalleryItem)
	if len(items) != 0 {
		t.Fatalf("expected empty gallery, got %+v", items)
	}

	// A fresh add lands at index zero, no residue from the removed item.
	if _, err := session.AddGalleryImage("images", templates.ImageRef{URL: "y.png"}); err != nil {
		t.Fatalf("second add: %v", err)
	}
	items = session.Current().Data["images"].([]templates.GalleryItem)
	if len(items) != 1 || items[0].URL != "y.png" {
		t.Fatalf("index drift after remove: %+v", items)
	}
}

func TestGalleryMutationRejectsWrongField(t *testing.T) {
	ctx := context.Background()
	session, _ := newSessionFixture(t)

	if _, err := session.Open(ctx, "about-me"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := session.AddGalleryImage("title", templates.ImageRef{URL: "x.png"}); err == nil {
		t.Fatalf("expected non-gallery field to be rejected")
	}
	if _, err := session.RemoveGalleryImage("images", 0); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestSessionCloseRejectsOperations(t *testing.T) {
	ctx := context.Background()
	session, _ := newSessionFixture(t)

	form, err := session.Open(ctx, "about-me")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	session.Close()

	if _, err := session.Save(ctx, form.Values()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if _, err := session.Preview(ctx, form.Values()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed from preview, got %v", err)
	}
}
