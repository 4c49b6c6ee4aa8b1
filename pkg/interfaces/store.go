package interfaces

import (
	"context"
	"errors"
	"fmt"
)

// DocumentStore abstracts the hosted document database. Implementations map
// these operations onto their backend (bun tables, a remote document API,
// or an in-memory map for tests). Documents are schemaless JSON objects
// addressed by (collection, id).
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Set(ctx context.Context, collection, id string, doc map[string]any, opts SetOptions) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, opts QueryOptions) ([]map[string]any, error)
}

// SetOptions controls write behaviour.
type SetOptions struct {
	// Merge performs a shallow merge into the existing document instead of a
	// full overwrite.
	Merge bool
}

// QueryOptions carries ordering and limit pass-through for list operations.
// No pagination cursor is supported.
type QueryOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
}

var (
	// ErrDocumentNotFound signals a missing document. Load operations treat
	// this as a valid empty state, deletes as a no-op.
	ErrDocumentNotFound = errors.New("store: document not found")
	// ErrStoreUnavailable signals the backing store could not be reached.
	ErrStoreUnavailable = errors.New("store: unavailable")
	// ErrPermissionDenied signals the store rejected the operation.
	ErrPermissionDenied = errors.New("store: permission denied")
)

// DocumentNotFoundError carries the document address alongside the sentinel.
type DocumentNotFoundError struct {
	Collection string
	ID         string
}

func (e *DocumentNotFoundError) Error() string {
	if e == nil {
		return ErrDocumentNotFound.Error()
	}
	return fmt.Sprintf("%s: %s/%s", ErrDocumentNotFound.Error(), e.Collection, e.ID)
}

func (e *DocumentNotFoundError) Unwrap() error {
	return ErrDocumentNotFound
}

// IsNotFound reports whether err represents a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

// IsUnavailable reports whether err means the store could not be reached.
// Callers surface these as dismissible status messages, never as faults.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsPermissionDenied reports whether the store rejected the operation.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
