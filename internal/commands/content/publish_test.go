package contentcmd

import (
	"context"
	"testing"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/maincontent"
	"github.com/seitenwerk/seitenwerk/internal/store"
)

func TestPublishContentCommand(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC) }
	gateway := store.NewGateway(store.NewMemoryStore(), store.WithGatewayClock(clock))
	service := maincontent.NewService(gateway)

	draft := &maincontent.Content{About: maincontent.Section{Title: "Über mich", Text: "Hallo."}}
	if err := service.Save(ctx, store.VariantDraft, draft); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	handler := NewPublishContentHandler(service, nil)
	if err := handler.Execute(ctx, PublishContentCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	live, err := service.Load(ctx, store.VariantMain)
	if err != nil {
		t.Fatalf("load main: %v", err)
	}
	if live.About.Title != "Über mich" {
		t.Fatalf("draft not promoted: %+v", live)
	}
	if !live.PublishedAt.Equal(time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected publish stamp %v", live.PublishedAt)
	}
}
