package editor

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/seitenwerk/seitenwerk/internal/forms"
	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/preview"
	"github.com/seitenwerk/seitenwerk/internal/richtext"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Session is the editing surface for one operator: the currently open page,
// its assembled form, the mounted rich-text editors and the dirty
// coordinator. Each session owns its mount registry, so concurrent sessions
// never share editor instances.
type Session struct {
	pages       pages.Service
	registry    *templates.Registry
	mounts      *richtext.Registry
	assembler   *forms.Assembler
	collector   *forms.Collector
	renderer    *preview.Renderer
	coordinator *Coordinator
	logger      interfaces.Logger

	mu      sync.Mutex
	current *pages.PageDocument
	form    *forms.Form
}

type SessionOption func(*Session)

func WithSessionLogger(provider interfaces.LoggerProvider) SessionOption {
	return func(s *Session) {
		if provider != nil {
			s.logger = logging.EditorLogger(provider)
		}
	}
}

func WithSessionCoordinator(coordinator *Coordinator) SessionOption {
	return func(s *Session) {
		if coordinator != nil {
			s.coordinator = coordinator
		}
	}
}

// WithSessionRichTextFactory swaps the editor implementation mounted on
// rich-text fields.
func WithSessionRichTextFactory(factory interfaces.RichTextFactory) SessionOption {
	return func(s *Session) {
		if factory != nil {
			s.assembler = forms.NewAssembler(s.registry, s.mounts, forms.WithRichTextFactory(factory))
		}
	}
}

func NewSession(pageService pages.Service, registry *templates.Registry, opts ...SessionOption) *Session {
	mounts := richtext.NewRegistry()
	session := &Session{
		pages:       pageService,
		registry:    registry,
		mounts:      mounts,
		assembler:   forms.NewAssembler(registry, mounts),
		collector:   forms.NewCollector(registry, mounts),
		renderer:    preview.NewRenderer(registry),
		coordinator: NewCoordinator(),
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Coordinator exposes the session's dirty machine.
func (s *Session) Coordinator() *Coordinator {
	return s.coordinator
}

// Current returns the open page, or nil when none is open.
func (s *Session) Current() *pages.PageDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Form returns the form assembled for the open page.
func (s *Session) Form() *forms.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Open switches the session to the page with the given id. With unsaved
// changes the switch is guarded: declining keeps the current document and
// its dirty state. On success the form is rebuilt, every mounted rich-text
// editor reports changes into the coordinator, and the state is Clean.
func (s *Session) Open(ctx context.Context, id string) (*forms.Form, error) {
	err := s.coordinator.Guard(ctx, "Discard unsaved changes?", func(ctx context.Context) error {
		page, err := s.pages.Get(ctx, id)
		if err != nil {
			return err
		}
		form, err := s.assembler.Build(page.TemplateID, page.Data)
		if err != nil {
			return err
		}
		s.watchEditors(form)

		s.mu.Lock()
		s.current = page
		s.form = form
		s.mu.Unlock()

		s.logger.Debug("page opened", "page", id, "template", page.TemplateID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Form(), nil
}

func (s *Session) watchEditors(form *forms.Form) {
	for _, field := range form.RichTextFields {
		if editor := s.mounts.Get(field); editor != nil {
			editor.OnChange(func(string) {
				s.coordinator.MarkDirty()
			})
		}
	}
}

// MarkDirty flags a tracked change from a plain form control.
func (s *Session) MarkDirty() {
	s.coordinator.MarkDirty()
}

// SetTitle updates the open page's title and marks the session dirty. The
// title lives outside the template data, so it has no form control.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	if s.current != nil && s.current.Title != title {
		s.current.Title = title
		s.mu.Unlock()
		s.coordinator.MarkDirty()
		return
	}
	s.mu.Unlock()
}

// AddGalleryImage appends ref to the named gallery field of the open page,
// rebuilds the form so the new item gets its caption and remove controls,
// and marks the session dirty. Nothing is persisted until the next save.
func (s *Session) AddGalleryImage(field string, ref templates.ImageRef) (*forms.Form, error) {
	return s.mutateGallery(field, func(items []templates.GalleryItem) ([]templates.GalleryItem, error) {
		return templates.AddGalleryImage(items, ref), nil
	})
}

// RemoveGalleryImage drops the gallery item at index. Remaining items shift
// down so subsequent adds never see index gaps.
func (s *Session) RemoveGalleryImage(field string, index int) (*forms.Form, error) {
	return s.mutateGallery(field, func(items []templates.GalleryItem) ([]templates.GalleryItem, error) {
		updated, ok := templates.RemoveGalleryImage(items, index)
		if !ok {
			return nil, fmt.Errorf("editor: gallery index %d out of range", index)
		}
		return updated, nil
	})
}

func (s *Session) mutateGallery(field string, mutate func([]templates.GalleryItem) ([]templates.GalleryItem, error)) (*forms.Form, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return nil, ErrSessionClosed
	}

	schema, err := s.registry.Get(current.TemplateID)
	if err != nil {
		return nil, err
	}
	def, ok := schema.Field(field)
	if !ok || def.Type != templates.FieldImageGallery {
		return nil, fmt.Errorf("editor: %q is not an image gallery field", field)
	}

	if current.Data == nil {
		current.Data = map[string]any{}
	}
	items, _ := templates.Normalize(def, current.Data[field]).([]templates.GalleryItem)
	updated, err := mutate(items)
	if err != nil {
		return nil, err
	}
	current.Data[field] = updated

	form, err := s.assembler.Build(current.TemplateID, current.Data)
	if err != nil {
		return nil, err
	}
	s.watchEditors(form)

	s.mu.Lock()
	s.form = form
	s.mu.Unlock()

	s.coordinator.MarkDirty()
	return form, nil
}

// Collect reads the submitted form values back into the open page's data
// without persisting anything.
func (s *Session) Collect(values url.Values) (map[string]any, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return nil, ErrSessionClosed
	}
	return s.collector.Collect(current.TemplateID, values)
}

// Preview renders the current form content with the page's effective style
// settings. Nothing is persisted.
func (s *Session) Preview(ctx context.Context, values url.Values) (string, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return "", ErrSessionClosed
	}

	data, err := s.collector.Collect(current.TemplateID, values)
	if err != nil {
		return "", err
	}
	settings, err := s.pages.EffectiveSettings(ctx, current)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(current.TemplateID, data, settings)
}

// Save collects the form values and persists the page. Concurrent saves are
// rejected by the in-flight gate; only a successful save flips the state to
// Clean.
func (s *Session) Save(ctx context.Context, values url.Values) (*pages.PageDocument, error) {
	if err := s.coordinator.BeginSave(); err != nil {
		return nil, err
	}

	saved, err := s.doSave(ctx, values)
	s.coordinator.CompleteSave(err)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Session) doSave(ctx context.Context, values url.Values) (*pages.PageDocument, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return nil, ErrSessionClosed
	}

	data, err := s.collector.Collect(current.TemplateID, values)
	if err != nil {
		return nil, err
	}

	page := *current
	page.Data = data

	saved, err := s.pages.Save(ctx, &page)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = saved
	s.mu.Unlock()
	return saved, nil
}

// Reload re-reads the open page from the store, bypassing caches, and
// rebuilds the form. Guarded like Open.
func (s *Session) Reload(ctx context.Context) (*forms.Form, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return nil, ErrSessionClosed
	}

	err := s.coordinator.Guard(ctx, "Discard unsaved changes?", func(ctx context.Context) error {
		page, err := s.pages.Get(ctx, current.ID, store.ForceRefresh())
		if err != nil {
			return err
		}
		form, err := s.assembler.Build(page.TemplateID, page.Data)
		if err != nil {
			return err
		}
		s.watchEditors(form)

		s.mu.Lock()
		s.current = page
		s.form = form
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Form(), nil
}

// Close tears the session down: editors are destroyed and late save
// completions no-op.
func (s *Session) Close() {
	s.coordinator.Close()
	s.mounts.DestroyAll()

	s.mu.Lock()
	s.current = nil
	s.form = nil
	s.mu.Unlock()
}
