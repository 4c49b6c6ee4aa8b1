package pagescmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/templates"
)

func newPageService(t *testing.T) pages.Service {
	t.Helper()
	return pages.NewService(store.NewGateway(store.NewMemoryStore()), templates.Builtin())
}

func TestSavePageCommand(t *testing.T) {
	ctx := context.Background()
	service := newPageService(t)

	page, err := service.Create(ctx, pages.CreateRequest{ID: "about-me", Title: "Über mich", TemplateID: "basic"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	page.Data["subtitle"] = "Wer ich bin"

	handler := NewSavePageHandler(service, nil)
	if err := handler.Execute(ctx, SavePageCommand{Page: page}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	stored, err := service.Get(ctx, "about-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Data["subtitle"] != "Wer ich bin" {
		t.Fatalf("save not applied: %v", stored.Data)
	}
}

func TestSavePageCommandValidation(t *testing.T) {
	handler := NewSavePageHandler(newPageService(t), nil)

	err := handler.Execute(context.Background(), SavePageCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestDeletePageCommand(t *testing.T) {
	ctx := context.Background()
	service := newPageService(t)

	if _, err := service.Create(ctx, pages.CreateRequest{ID: "about-me", Title: "Über mich", TemplateID: "basic"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := NewDeletePageHandler(service, nil)
	if err := handler.Execute(ctx, DeletePageCommand{PageID: "about-me"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := service.Get(ctx, "about-me"); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected page gone, got %v", err)
	}

	// Deleting again stays idempotent through the command layer too.
	if err := handler.Execute(ctx, DeletePageCommand{PageID: "about-me"}); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	if err := handler.Execute(ctx, DeletePageCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
