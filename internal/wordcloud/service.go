package wordcloud

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/seitenwerk/seitenwerk/internal/activity"
	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

const (
	MinWeight = 1
	MaxWeight = 9

	defaultLink = "#"
)

// Entry is one word in the cloud. Weight scales the rendered size; Link
// defaults to "#" when left empty. Entry order is the display order.
type Entry struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
	Link   string `json:"link"`
}

// Validate reports why an entry cannot be stored.
func (e Entry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Text, validation.By(func(any) error {
			if strings.TrimSpace(e.Text) == "" {
				return validation.NewError("wordcloud.text_required", "text must not be empty")
			}
			return nil
		})),
		validation.Field(&e.Weight, validation.Min(MinWeight), validation.Max(MaxWeight)),
	)
}

// Service manages the ordered word cloud list.
type Service interface {
	Load(ctx context.Context, opts ...store.ReadOption) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) ([]Entry, error)
	Reorder(ctx context.Context, order []int) ([]Entry, error)
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
			s.logger = logging.ModuleLogger(provider, "siteadmin.wordcloud")
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

// Load returns the stored entries in order. A missing document is an empty
// cloud.
func (s *service) Load(ctx context.Context, opts ...store.ReadOption) ([]Entry, error) {
	doc, err := s.gateway.LoadWordCloud(ctx, opts...)
	if err != nil {
		if interfaces.IsNotFound(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	return decodeEntries(doc), nil
}

// Save validates every entry and stores the list verbatim. An invalid entry
// rejects the whole save; nothing reaches the gateway.
func (s *service) Save(ctx context.Context, entries []Entry) ([]Entry, error) {
	normalized := make([]Entry, len(entries))
	for i, entry := range entries {
		entry.Text = strings.TrimSpace(entry.Text)
		if entry.Link == "" {
			entry.Link = defaultLink
		}
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("wordcloud: entry %d: %w", i, err)
		}
		normalized[i] = entry
	}

	if err := s.gateway.SaveWordCloud(ctx, encodeEntries(normalized)); err != nil {
		return nil, err
	}

	s.logger.Debug("word cloud saved", "entries", len(normalized))
	s.recorder.Record(ctx, activity.VerbWordCloudSaved, "wordcloud", store.DocWordCloud, map[string]any{"entries": len(normalized)})
	return normalized, nil
}

// Reorder persists the stored entries rearranged by the given index
// permutation.
func (s *service) Reorder(ctx context.Context, order []int) ([]Entry, error) {
	entries, err := s.Load(ctx, store.ForceRefresh())
	if err != nil {
		return nil, err
	}
	if len(order) != len(entries) {
		return nil, fmt.Errorf("wordcloud: reorder expects %d indices, got %d", len(entries), len(order))
	}

	seen := make(map[int]bool, len(order))
	reordered := make([]Entry, 0, len(entries))
	for _, idx := range order {
		if idx < 0 || idx >= len(entries) || seen[idx] {
			return nil, fmt.Errorf("wordcloud: invalid reorder index %d", idx)
		}
		seen[idx] = true
		reordered = append(reordered, entries[idx])
	}
	return s.Save(ctx, reordered)
}

// The persisted document is {"words": [...]}; existing stored documents use
// that key and it must survive round trips.
func encodeEntries(entries []Entry) map[string]any {
	encoded := make([]any, len(entries))
	for i, entry := range entries {
		encoded[i] = map[string]any{
			"text":   entry.Text,
			"weight": entry.Weight,
			"link":   entry.Link,
		}
	}
	return map[string]any{"words": encoded}
}

func decodeEntries(doc map[string]any) []Entry {
	raw, ok := doc["words"].([]any)
	if !ok {
		// Documents written before the key was fixed used "entries".
		raw, ok = doc["entries"].([]any)
	}
	if !ok {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := Entry{Link: defaultLink}
		entry.Text, _ = m["text"].(string)
		if link, ok := m["link"].(string); ok && link != "" {
			entry.Link = link
		}
		switch weight := m["weight"].(type) {
		case int:
			entry.Weight = weight
		case float64:
			entry.Weight = int(weight)
		}
		entries = append(entries, entry)
	}
	return entries
}
