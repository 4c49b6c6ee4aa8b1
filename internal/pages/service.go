package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/seitenwerk/seitenwerk/internal/activity"
	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/styles"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Service manages page documents: creation from template defaults, loading,
// full-overwrite saves with schema validation, idempotent deletes and
// listing.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PageDocument, error)
	Get(ctx context.Context, id string, opts ...store.ReadOption) (*PageDocument, error)
	Save(ctx context.Context, page *PageDocument) (*PageDocument, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]*PageDocument, error)
	EffectiveSettings(ctx context.Context, page *PageDocument) (styles.Settings, error)
}

type service struct {
	gateway   *store.Gateway
	registry  *templates.Registry
	validator *templates.Validator
	recorder  *activity.Recorder
	logger    interfaces.Logger
	now       func() time.Time
}

type ServiceOption func(*service)

func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		if provider != nil {
			s.logger = logging.PagesLogger(provider)
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithActivityRecorder(recorder *activity.Recorder) ServiceOption {
	return func(s *service) { s.recorder = recorder }
}

func NewService(gateway *store.Gateway, registry *templates.Registry, opts ...ServiceOption) Service {
	svc := &service{
		gateway:   gateway,
		registry:  registry,
		validator: templates.NewValidator(registry),
		logger:    logging.NoOp(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create builds a page from the template's empty defaults. The id must be a
// valid slug and must not already exist; required title-like fields are
// seeded with the page title so a fresh page validates.
func (s *service) Create(ctx context.Context, req CreateRequest) (*PageDocument, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" || !slug.IsValid(id) {
		return nil, fmt.Errorf("%w: %q", ErrPageIDInvalid, req.ID)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	schema, err := s.registry.Get(req.TemplateID)
	if err != nil {
		return nil, err
	}

	if _, err := s.gateway.LoadPage(ctx, id, store.ForceRefresh()); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrPageExists, id)
	} else if !interfaces.IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	page := &PageDocument{
		ID:         id,
		Title:      title,
		TemplateID: schema.ID,
		Data:       seedData(schema, title),
		Created:    now,
		Updated:    now,
	}

	if err := s.gateway.SaveOrCreatePage(ctx, id, encodePage(page)); err != nil {
		return nil, err
	}

	s.logger.Info("page created", "page", id, "template", schema.ID)
	s.recorder.Record(ctx, activity.VerbPageCreated, "page", id, map[string]any{"template": schema.ID})
	return page, nil
}

func (s *service) Get(ctx context.Context, id string, opts ...store.ReadOption) (*PageDocument, error) {
	doc, err := s.gateway.LoadPage(ctx, id, opts...)
	if err != nil {
		if interfaces.IsNotFound(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return decodePage(id, doc), nil
}

// Save overwrites the stored document with the page's title, data and
// settings. Data is validated against the template schema first; an invalid
// page never reaches the store.
func (s *service) Save(ctx context.Context, page *PageDocument) (*PageDocument, error) {
	if page == nil || strings.TrimSpace(page.ID) == "" {
		return nil, ErrPageIDInvalid
	}
	if strings.TrimSpace(page.Title) == "" {
		return nil, ErrTitleRequired
	}

	if err := s.validator.ValidateData(page.TemplateID, page.Data); err != nil {
		return nil, err
	}

	saved := *page
	if saved.Created.IsZero() {
		if existing, err := s.Get(ctx, page.ID); err == nil {
			saved.Created = existing.Created
		} else {
			saved.Created = s.now()
		}
	}
	saved.Updated = s.now()

	if err := s.gateway.SaveOrCreatePage(ctx, saved.ID, encodePage(&saved)); err != nil {
		return nil, err
	}

	s.logger.Debug("page saved", "page", saved.ID, "template", saved.TemplateID)
	s.recorder.Record(ctx, activity.VerbPageSaved, "page", saved.ID, map[string]any{"template": saved.TemplateID})
	return &saved, nil
}

// Delete removes the page. Deleting a missing page succeeds.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeletePage(ctx, id); err != nil {
		return err
	}
	s.logger.Info("page deleted", "page", id)
	s.recorder.Record(ctx, activity.VerbPageDeleted, "page", id, nil)
	return nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*PageDocument, error) {
	docs, err := s.gateway.ListPages(ctx, interfaces.QueryOptions{
		OrderBy:    opts.OrderBy,
		Descending: opts.Descending,
		Limit:      opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	pages := make([]*PageDocument, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		pages = append(pages, decodePage(id, doc))
	}
	return pages, nil
}

// EffectiveSettings merges the page's style overrides over the global
// settings document over the baked-in defaults. A missing global document is
// a valid empty state.
func (s *service) EffectiveSettings(ctx context.Context, page *PageDocument) (styles.Settings, error) {
	merged := styles.Defaults()

	global, err := s.gateway.LoadGlobalSettings(ctx)
	if err == nil {
		merged = styles.Merge(merged, styles.FromMap(global))
	} else if !interfaces.IsNotFound(err) {
		return styles.Settings{}, err
	}

	if page != nil {
		merged = styles.Merge(merged, page.Settings)
	}
	return merged, nil
}

// seedData fills template defaults and copies the page title into a required
// leading text field when the template has one.
func seedData(schema *templates.TemplateSchema, title string) map[string]any {
	data := templates.DefaultData(schema)
	for _, def := range schema.Fields {
		if def.Required && def.Type == templates.FieldShortText {
			data[def.Name] = title
			break
		}
	}
	return data
}
