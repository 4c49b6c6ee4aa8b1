package seitenwerk

import (
	"github.com/seitenwerk/seitenwerk/internal/di"
	"github.com/seitenwerk/seitenwerk/internal/editor"
	"github.com/seitenwerk/seitenwerk/internal/maincontent"
	"github.com/seitenwerk/seitenwerk/internal/markdown"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/preview"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/styles"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/internal/urls"
	"github.com/seitenwerk/seitenwerk/internal/wordcloud"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// PageService exports the pages service contract for consumers of the module.
type PageService = pages.Service

// PageDocument exports the stored page shape.
type PageDocument = pages.PageDocument

// CreatePageRequest exports the page creation payload.
type CreatePageRequest = pages.CreateRequest

// MainContentService exports the homepage content service contract.
type MainContentService = maincontent.Service

// WordCloudService exports the word cloud service contract.
type WordCloudService = wordcloud.Service

// WordCloudEntry exports a single word cloud entry.
type WordCloudEntry = wordcloud.Entry

// TemplateRegistry exports the template catalog.
type TemplateRegistry = templates.Registry

// TemplateSchema exports a template definition.
type TemplateSchema = templates.TemplateSchema

// StyleSettings exports the page/global style settings value.
type StyleSettings = styles.Settings

// EditSession exports the per-operator editing session.
type EditSession = editor.Session

// Confirmer exports the unsaved-changes prompt contract.
type Confirmer = editor.Confirmer

// ConfirmerFunc adapts a function to the Confirmer contract.
type ConfirmerFunc = editor.ConfirmerFunc

// PreviewRenderer exports the preview renderer.
type PreviewRenderer = preview.Renderer

// PreviewChrome exports the full-document preview chrome.
type PreviewChrome = preview.Chrome

// MarkdownImporter exports the markdown import pipeline.
type MarkdownImporter = markdown.Importer

// URLResolver exports the public URL resolver.
type URLResolver = urls.Resolver

// Variant selects the draft or published main content document.
type Variant = store.Variant

const (
	VariantDraft = store.VariantDraft
	VariantMain  = store.VariantMain
)

// ActivityRecord exports the activity event shape emitted to sinks.
type ActivityRecord = interfaces.ActivityRecord

// Module is the top level runtime façade. Hosts construct it once and reach
// every service through it.
type Module struct {
	container *di.Container
}

// New constructs the module from configuration plus optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the page service.
func (m *Module) Pages() PageService {
	return m.container.Pages()
}

// MainContent returns the homepage content service.
func (m *Module) MainContent() MainContentService {
	return m.container.MainContent()
}

// WordCloud returns the word cloud service.
func (m *Module) WordCloud() WordCloudService {
	return m.container.WordCloud()
}

// Templates returns the template registry.
func (m *Module) Templates() *TemplateRegistry {
	return m.container.Templates()
}

// Preview returns the preview renderer.
func (m *Module) Preview() *PreviewRenderer {
	return m.container.Preview()
}

// Chrome returns the document chrome for full-page previews.
func (m *Module) Chrome() PreviewChrome {
	return m.container.Chrome()
}

// NewEditSession opens an editing session.
func (m *Module) NewEditSession() *EditSession {
	return m.container.NewEditSession()
}

// Uploader returns the configured upload chain.
func (m *Module) Uploader() interfaces.Uploader {
	return m.container.Uploader()
}

// URLs returns the public URL resolver, nil unless navigation is configured.
func (m *Module) URLs() *URLResolver {
	return m.container.URLs()
}

// Importer returns the markdown importer, nil unless the feature is enabled.
func (m *Module) Importer() *MarkdownImporter {
	return m.container.Importer()
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
