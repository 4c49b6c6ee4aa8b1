package store

import (
	"context"
	"sort"
	"sync"

	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// MemoryStore is the in-process DocumentStore used for tests and the memory
// storage driver. All reads return deep copies so callers cannot reach the
// shared state.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

var _ interfaces.DocumentStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, &interfaces.DocumentNotFoundError{Collection: collection, ID: id}
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc map[string]any, opts interfaces.SetOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[collection] = docs
	}

	if opts.Merge {
		if existing, found := docs[id]; found {
			merged := cloneDocument(existing)
			for key, value := range cloneDocument(doc) {
				merged[key] = value
			}
			docs[id] = merged
			return nil
		}
	}
	docs[id] = cloneDocument(doc)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil
	}
	delete(docs, id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, opts interfaces.QueryOptions) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	results := make([]map[string]any, 0, len(s.collections[collection]))
	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		results = append(results, cloneDocument(s.collections[collection][id]))
	}
	s.mu.RUnlock()

	if opts.OrderBy != "" {
		sortDocuments(results, opts.OrderBy, opts.Descending)
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func sortDocuments(docs []map[string]any, orderBy string, descending bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValue(docs[i][orderBy], docs[j][orderBy])
		if descending {
			return !less && !equalValue(docs[i][orderBy], docs[j][orderBy])
		}
		return less
	})
}

func lessValue(a, b any) bool {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as < bs
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return false
}

func equalValue(a, b any) bool {
	return !lessValue(a, b) && !lessValue(b, a)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// cloneDocument deep-copies the JSON-shaped values a document may hold.
func cloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	clone := make(map[string]any, len(doc))
	for key, value := range doc {
		clone[key] = cloneValue(value)
	}
	return clone
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneDocument(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return v
	}
}
