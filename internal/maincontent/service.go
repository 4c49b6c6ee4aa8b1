package maincontent

import (
	"context"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/activity"
	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Section is one fixed homepage block: a heading plus rich-text body.
type Section struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Content is the homepage document. The three sections are fixed; pages
// handle everything else. PublishedAt is only set on the main variant.
type Content struct {
	About       Section   `json:"about"`
	Offerings   Section   `json:"offerings"`
	Contact     Section   `json:"contact"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// Service loads and saves the draft and published homepage content. A
// missing document is a valid empty state, not an error.
type Service interface {
	Load(ctx context.Context, variant store.Variant, opts ...store.ReadOption) (*Content, error)
	Save(ctx context.Context, variant store.Variant, content *Content) error
	Publish(ctx context.Context) (*Content, error)
}

type service struct {
	gateway  *store.Gateway
	recorder *activity.Recorder
	logger   interfaces.Logger
}

type ServiceOption func(*service)

func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		if provider != nil {
			s.logger = logging.ModuleLogger(provider, "siteadmin.maincontent")
		}
	}
}

func WithActivityRecorder(recorder *activity.Recorder) ServiceOption {
	return func(s *service) { s.recorder = recorder }
}

func NewService(gateway *store.Gateway, opts ...ServiceOption) Service {
	svc := &service{
		gateway: gateway,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Load(ctx context.Context, variant store.Variant, opts ...store.ReadOption) (*Content, error) {
	doc, err := s.gateway.LoadMainContent(ctx, variant, opts...)
	if err != nil {
		if interfaces.IsNotFound(err) {
			return &Content{}, nil
		}
		return nil, err
	}
	return decodeContent(doc), nil
}

func (s *service) Save(ctx context.Context, variant store.Variant, content *Content) error {
	if content == nil {
		content = &Content{}
	}
	if err := s.gateway.SaveMainContent(ctx, variant, encodeContent(content)); err != nil {
		return err
	}
	s.logger.Debug("main content saved", "variant", string(variant))
	s.recorder.Record(ctx, activity.VerbContentSaved, "maincontent", string(variant), nil)
	return nil
}

// Publish copies the draft verbatim onto main; the gateway stamps the
// publish time.
func (s *service) Publish(ctx context.Context) (*Content, error) {
	published, err := s.gateway.PublishDraftToMain(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("main content published")
	s.recorder.Record(ctx, activity.VerbContentPublished, "maincontent", string(store.VariantMain), nil)
	return decodeContent(published), nil
}

func encodeContent(content *Content) map[string]any {
	doc := map[string]any{
		"about":     sectionToMap(content.About),
		"offerings": sectionToMap(content.Offerings),
		"contact":   sectionToMap(content.Contact),
	}
	if !content.PublishedAt.IsZero() {
		doc["publishedAt"] = content.PublishedAt.Format(time.RFC3339)
	}
	return doc
}

func decodeContent(doc map[string]any) *Content {
	content := &Content{
		About:     sectionFromMap(doc["about"]),
		Offerings: sectionFromMap(doc["offerings"]),
		Contact:   sectionFromMap(doc["contact"]),
	}
	if raw, ok := doc["publishedAt"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			content.PublishedAt = parsed.UTC()
		}
	}
	return content
}

func sectionToMap(section Section) map[string]any {
	return map[string]any{"title": section.Title, "text": section.Text}
}

func sectionFromMap(v any) Section {
	m, ok := v.(map[string]any)
	if !ok {
		return Section{}
	}
	title, _ := m["title"].(string)
	text, _ := m["text"].(string)
	return Section{Title: title, Text: text}
}
