package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"

	"github.com/seitenwerk/seitenwerk/internal/identity"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// BunStore persists documents in a relational documents table through bun.
// Row IDs derive deterministically from the document address, so writes are
// idempotent upserts without a uniqueness round trip.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*Document]
	now  func() time.Time
}

var _ interfaces.DocumentStore = (*BunStore)(nil)

func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache constructs a document store backed by bun with
// optional repository-level caching.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	return &BunStore{
		db:   db,
		repo: wrapWithCache(NewDocumentRepository(db), cacheService, keySerializer),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *BunStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	record, err := s.getRecord(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return cloneDocument(record.Payload), nil
}

func (s *BunStore) Set(ctx context.Context, collection, id string, doc map[string]any, opts interfaces.SetOptions) error {
	existing, err := s.getRecord(ctx, collection, id)
	if err != nil && !interfaces.IsNotFound(err) {
		return err
	}

	now := s.now()
	if existing == nil {
		record := &Document{
			ID:         identity.DocumentUUID(collection, id),
			Collection: collection,
			DocID:      id,
			Payload:    cloneDocument(doc),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := s.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("document store: create %s/%s: %w", collection, id, err)
		}
		return nil
	}

	payload := cloneDocument(doc)
	if opts.Merge {
		merged := cloneDocument(existing.Payload)
		for key, value := range payload {
			merged[key] = value
		}
		payload = merged
	}

	existing.Payload = payload
	existing.UpdatedAt = now
	if _, err := s.repo.Update(ctx, existing,
		repository.UpdateByID(existing.ID.String()),
		repository.UpdateColumns("payload", "updated_at"),
	); err != nil {
		return fmt.Errorf("document store: update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *BunStore) Delete(ctx context.Context, collection, id string) error {
	record, err := s.getRecord(ctx, collection, id)
	if err != nil {
		if interfaces.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, record); err != nil {
		return fmt.Errorf("document store: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *BunStore) Query(ctx context.Context, collection string, opts interfaces.QueryOptions) ([]map[string]any, error) {
	processors := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.collection = ?", collection)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.doc_id ASC")
		}),
	}
	if opts.Limit > 0 {
		processors = append(processors, repository.SelectPaginate(opts.Limit, 0))
	}

	records, _, err := s.repo.List(ctx, processors...)
	if err != nil {
		return nil, mapRepositoryError(err, collection, "")
	}

	results := make([]map[string]any, 0, len(records))
	for _, record := range records {
		results = append(results, cloneDocument(record.Payload))
	}
	if opts.OrderBy != "" {
		results = orderDocuments(results, opts.OrderBy, opts.Descending)
	}
	return results, nil
}

func (s *BunStore) getRecord(ctx context.Context, collection, id string) (*Document, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.collection = ?", collection)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.doc_id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, collection, id)
	}
	if len(records) == 0 {
		return nil, &interfaces.DocumentNotFoundError{Collection: collection, ID: id}
	}
	return records[0], nil
}

func mapRepositoryError(err error, collection, id string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &interfaces.DocumentNotFoundError{Collection: collection, ID: id}
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("document store error: %w", err)
}

// isConnectionError recognises driver-level failures that mean the database
// itself is unreachable, as opposed to a bad query or constraint violation.
func isConnectionError(err error) bool {
	return errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

func orderDocuments(docs []map[string]any, orderBy string, descending bool) []map[string]any {
	sorted := make([]map[string]any, len(docs))
	copy(sorted, docs)
	sortDocuments(sorted, orderBy, descending)
	return sorted
}
