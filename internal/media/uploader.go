package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

var (
	// ErrUploaderUnavailable reports that no uploader has been configured.
	ErrUploaderUnavailable = errors.New("media: uploader unavailable")
	// ErrNameRequired reports an upload without a usable file name.
	ErrNameRequired = errors.New("media: upload name required")
)

// Local writes uploads to a directory on disk and serves them from a base
// URL. It is the fallback endpoint behind the hosted provider, and the only
// endpoint when no provider is configured.
type Local struct {
	dir     string
	baseURL string
	newID   func() string
}

type LocalOption func(*Local)

// WithIDGenerator overrides the suffix generator used to de-collide names.
func WithIDGenerator(gen func() string) LocalOption {
	return func(l *Local) {
		if gen != nil {
			l.newID = gen
		}
	}
}

func NewLocal(dir, baseURL string, opts ...LocalOption) *Local {
	local := &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   func() string { return uuid.NewString()[:8] },
	}
	for _, opt := range opts {
		opt(local)
	}
	return local
}

// Upload stores content under a slugged, suffixed file name so repeated
// uploads of the same name never overwrite each other.
func (l *Local) Upload(ctx context.Context, name string, content io.Reader) (*interfaces.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileName, err := l.fileName(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}

	target := filepath.Join(l.dir, fileName)
	file, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("media: create %s: %w", fileName, err)
	}
	written, err := io.Copy(file, content)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("media: write %s: %w", fileName, err)
	}

	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	return &interfaces.UploadResult{
		URL:      l.baseURL + "/" + fileName,
		PublicID: strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		Format:   ext,
		Bytes:    written,
	}, nil
}

func (l *Local) fileName(name string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	normalized, err := slug.Normalize(base)
	if err != nil || normalized == "" {
		return "", ErrNameRequired
	}
	return normalized + "-" + l.newID() + strings.ToLower(filepath.Ext(name)), nil
}

// Chain tries the hosted provider first and falls back to the local
// endpoint when the provider fails or is missing. Results served by the
// fallback are marked so callers can surface the degraded state.
type Chain struct {
	primary  interfaces.Uploader
	fallback interfaces.Uploader
	logger   interfaces.Logger
}

type ChainOption func(*Chain)

func WithChainLogger(provider interfaces.LoggerProvider) ChainOption {
	return func(c *Chain) {
		if provider != nil {
			c.logger = logging.ModuleLogger(provider, "siteadmin.media")
		}
	}
}

func NewChain(primary, fallback interfaces.Uploader, opts ...ChainOption) *Chain {
	chain := &Chain{
		primary:  primary,
		fallback: fallback,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

func (c *Chain) Upload(ctx context.Context, name string, content io.Reader) (*interfaces.UploadResult, error) {
	if c.primary == nil && c.fallback == nil {
		return nil, ErrUploaderUnavailable
	}

	// Buffer once so a failed primary attempt does not consume the stream.
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}

	if c.primary != nil {
		result, err := c.primary.Upload(ctx, name, bytes.NewReader(data))
		if err == nil {
			return result, nil
		}
		if c.fallback == nil {
			return nil, err
		}
		c.logger.Warn("primary upload failed, using fallback", "name", name, "error", err)
	}

	result, err := c.fallback.Upload(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if c.primary != nil {
		result.Fallback = true
	}
	return result, nil
}

// AsImageRef converts an upload result into the image value stored in
// template data.
func AsImageRef(result *interfaces.UploadResult, alt string) templates.ImageRef {
	if result == nil {
		return templates.ImageRef{}
	}
	return templates.ImageRef{URL: result.URL, PublicID: result.PublicID, Alt: alt}
}
