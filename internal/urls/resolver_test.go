package urls

import (
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
)

func newTestManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"page": "/seiten/:slug",
					"home": "/",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "en",
						Path: "/en",
						Paths: map[string]string{
							"page": "/pages/:slug",
						},
					},
				},
			},
		},
	})
}

func TestPageURL(t *testing.T) {
	resolver := NewResolver(Options{Manager: newTestManager()})

	url, err := resolver.PageURL("about-me")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "https://example.com/seiten/about-me" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestRouteInNestedGroup(t *testing.T) {
	resolver := NewResolver(Options{Manager: newTestManager(), Group: "frontend.en"})

	url, err := resolver.PageURL("about-me")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "https://example.com/en/pages/about-me" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUnknownGroupAndRoute(t *testing.T) {
	resolver := NewResolver(Options{Manager: newTestManager(), Group: "admin"})
	if _, err := resolver.PageURL("about-me"); err == nil {
		t.Fatalf("expected unknown group error")
	}

	resolver = NewResolver(Options{Manager: newTestManager()})
	if _, err := resolver.Route("missing", nil); err == nil {
		t.Fatalf("expected unknown route error")
	}
}

func TestResolverWithoutManager(t *testing.T) {
	resolver := NewResolver(Options{})
	if _, err := resolver.PageURL("about-me"); err == nil {
		t.Fatalf("expected configuration error")
	}
}
