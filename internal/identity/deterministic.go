package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DocumentUUID derives the row identifier for a stored document. Documents
// are addressed by (collection, id) externally; the database key stays
// stable across re-imports.
func DocumentUUID(collection, id string) uuid.UUID {
	return UUID("siteadmin:document:" + strings.TrimSpace(collection) + "/" + strings.TrimSpace(id))
}

// TemplateUUID derives a stable identifier for a registered template.
func TemplateUUID(templateID string) uuid.UUID {
	return UUID("siteadmin:template:" + strings.ToLower(strings.TrimSpace(templateID)))
}
