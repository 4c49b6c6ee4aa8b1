package interfaces

import (
	"context"
	"io"
)

// Uploader is the opaque blob-store collaborator.
type Uploader interface {
	Upload(ctx context.Context, name string, content io.Reader) (*UploadResult, error)
}

// UploadResult mirrors the shape returned by the hosted upload provider.
// Fallback is true when the primary provider failed and a local endpoint
// served the upload instead.
type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Format   string
	Bytes    int64
	Fallback bool
}
