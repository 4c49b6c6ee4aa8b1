package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

func TestParserRendersGFM(t *testing.T) {
	parser := NewParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Hallo\n\n~~alt~~ **neu**\n\n- [ ] offen"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out := string(html)
	for _, want := range []string{
		`<h1 id="hallo">Hallo</h1>`,
		"<del>alt</del>",
		"<strong>neu</strong>",
		`type="checkbox"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered markdown missing %q:\n%s", want, out)
		}
	}
}

func TestParserSafeModeStripsRawHTML(t *testing.T) {
	parser := NewParser(interfaces.ParseOptions{})

	unsafe, err := parser.Parse([]byte("<em>raw</em>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(string(unsafe), "<em>raw</em>") {
		t.Fatalf("default mode should pass raw HTML through:\n%s", unsafe)
	}

	safe, err := parser.ParseWithOptions([]byte("<em>raw</em>"), interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("parse safe: %v", err)
	}
	if strings.Contains(string(safe), "<em>raw</em>") {
		t.Fatalf("safe mode must not emit raw HTML:\n%s", safe)
	}
}

func TestParseFrontMatter(t *testing.T) {
	source := []byte(`---
title: Über mich
slug: about-me
template: basic
tags: [coaching, balance]
subtitle: Wer ich bin
---
Körper **text**.`)

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if meta.Title != "Über mich" || meta.Slug != "about-me" || meta.Template != "basic" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "coaching" {
		t.Fatalf("unexpected tags: %v", meta.Tags)
	}
	if meta.Custom["subtitle"] != "Wer ich bin" {
		t.Fatalf("custom key lost: %v", meta.Custom)
	}
	if !strings.Contains(string(body), "Körper **text**.") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func newImportFixture(t *testing.T) (*Importer, pages.Service) {
	t.Helper()

	gateway := store.NewGateway(store.NewMemoryStore())
	registry := templates.Builtin()
	pageService := pages.NewService(gateway, registry,
		pages.WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)
	return NewImporter(pageService, registry), pageService
}

func TestImportDirCreatesPages(t *testing.T) {
	ctx := context.Background()
	importer, pageService := newImportFixture(t)

	fsys := fstest.MapFS{
		"about-me.md": &fstest.MapFile{Data: []byte(`---
title: Über mich
subtitle: Wer ich bin
---
Hallo **Welt**.`)},
		"entwurf.md": &fstest.MapFile{Data: []byte(`---
title: Entwurf
draft: true
---
Noch nicht fertig.`)},
		"notizen.txt": &fstest.MapFile{Data: []byte("kein markdown")},
	}

	result, err := importer.ImportDir(ctx, fsys, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0] != "about-me" {
		t.Fatalf("unexpected created: %v", result.Created)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "entwurf.md" {
		t.Fatalf("unexpected skipped: %v", result.Skipped)
	}

	page, err := pageService.Get(ctx, "about-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if page.Title != "Über mich" || page.TemplateID != "basic" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !strings.Contains(page.Data["content"].(string), "<strong>Welt</strong>") {
		t.Fatalf("body not rendered into content field: %v", page.Data["content"])
	}
	if page.Data["subtitle"] != "Wer ich bin" {
		t.Fatalf("custom frontmatter field lost: %v", page.Data)
	}
}

func TestImportDirUpdatesExistingPage(t *testing.T) {
	ctx := context.Background()
	importer, pageService := newImportFixture(t)

	if _, err := pageService.Create(ctx, pages.CreateRequest{ID: "about-me", Title: "Alt", TemplateID: "basic"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fsys := fstest.MapFS{
		"about-me.md": &fstest.MapFile{Data: []byte(`---
title: Neu
---
Aktualisiert.`)},
	}

	result, err := importer.ImportDir(ctx, fsys, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0] != "about-me" {
		t.Fatalf("unexpected updated: %v", result.Updated)
	}

	page, err := pageService.Get(ctx, "about-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if page.Title != "Neu" {
		t.Fatalf("title not updated: %+v", page)
	}
}

func TestImportDryRunPersistsNothing(t *testing.T) {
	ctx := context.Background()
	importer, pageService := newImportFixture(t)

	fsys := fstest.MapFS{
		"about-me.md": &fstest.MapFile{Data: []byte("---\ntitle: T\n---\nInhalt.")},
	}

	result, err := importer.ImportDir(ctx, fsys, ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("dry run should still report work: %+v", result)
	}
	if _, err := pageService.Get(ctx, "about-me"); err == nil {
		t.Fatalf("dry run must not persist")
	}
}

func TestImportSkipsUnknownTemplate(t *testing.T) {
	ctx := context.Background()
	importer, _ := newImportFixture(t)

	fsys := fstest.MapFS{
		"broken.md": &fstest.MapFile{Data: []byte("---\ntitle: T\ntemplate: nope\n---\nInhalt.")},
	}

	result, err := importer.ImportDir(ctx, fsys, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Skipped) != 1 || len(result.Created) != 0 {
		t.Fatalf("expected skip, got %+v", result)
	}
}
