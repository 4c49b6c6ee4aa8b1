package store

import (
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Document is the row shape for the documents table. Every admin document
// lives here, addressed by (collection, doc_id); the payload stays schemaless
// JSON the way the hosted document API stored it.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Collection string         `bun:"collection,notnull" json:"collection"`
	DocID      string         `bun:"doc_id,notnull" json:"doc_id"`
	Payload    map[string]any `bun:"payload,type:jsonb,notnull" json:"payload"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Address is the stable "collection/doc_id" identity used for cache keys and
// deterministic row IDs.
func (d *Document) Address() string {
	return d.Collection + "/" + d.DocID
}

func NewDocumentRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(d *Document) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Document, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "doc_id"
		},
		GetIdentifierValue: func(d *Document) string {
			return d.DocID
		},
	})
}
