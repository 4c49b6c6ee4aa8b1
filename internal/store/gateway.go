package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Collections and fixed document ids used by the admin.
const (
	CollectionPages       = "pages"
	CollectionMainContent = "main_content"
	CollectionWordCloud   = "word_cloud"
	CollectionSettings    = "settings"

	DocWordCloud      = "entries"
	DocGlobalSettings = "global"
)

// Variant selects the draft or the published main content document.
type Variant string

const (
	VariantDraft Variant = "draft"
	VariantMain  Variant = "main"
)

func (v Variant) Valid() bool {
	return v == VariantDraft || v == VariantMain
}

var ErrVariantInvalid = errors.New("store: content variant must be draft or main")

// ReadOption tunes a single gateway read.
type ReadOption func(*readOptions)

type readOptions struct {
	forceRefresh bool
}

// ForceRefresh bypasses the cache and reads straight from the store. The
// fresh result still repopulates the cache.
func ForceRefresh() ReadOption {
	return func(o *readOptions) { o.forceRefresh = true }
}

// Gateway is the single persistence surface the services talk to. Reads go
// through a TTL cache shadow when one is configured; writes reach the store
// first and refresh the cache only after the write succeeded, so a failed
// write never poisons cached state.
type Gateway struct {
	store      interfaces.DocumentStore
	cache      interfaces.CacheProvider
	logger     interfaces.Logger
	pageTTL    time.Duration
	contentTTL time.Duration
	now        func() time.Time
}

type GatewayOption func(*Gateway)

func WithGatewayCache(cache interfaces.CacheProvider) GatewayOption {
	return func(g *Gateway) { g.cache = cache }
}

func WithPageTTL(ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		if ttl > 0 {
			g.pageTTL = ttl
		}
	}
}

func WithContentTTL(ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		if ttl > 0 {
			g.contentTTL = ttl
		}
	}
}

func WithGatewayLogger(provider interfaces.LoggerProvider) GatewayOption {
	return func(g *Gateway) {
		if provider != nil {
			g.logger = logging.StoreLogger(provider)
		}
	}
}

func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGateway(store interfaces.DocumentStore, opts ...GatewayOption) *Gateway {
	gateway := &Gateway{
		store:      store,
		logger:     logging.NoOp(),
		pageTTL:    5 * time.Minute,
		contentTTL: time.Hour,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway
}

func (g *Gateway) LoadPage(ctx context.Context, id string, opts ...ReadOption) (map[string]any, error) {
	return g.load(ctx, CollectionPages, id, g.pageTTL, opts)
}

// SaveOrCreatePage upserts the page document. Uniqueness on create is the
// caller's responsibility; the gateway overwrites whatever is stored.
func (g *Gateway) SaveOrCreatePage(ctx context.Context, id string, doc map[string]any) error {
	return g.save(ctx, CollectionPages, id, doc, g.pageTTL)
}

// DeletePage removes the page document. Deleting a missing page is a no-op.
func (g *Gateway) DeletePage(ctx context.Context, id string) error {
	if err := g.store.Delete(ctx, CollectionPages, id); err != nil {
		if interfaces.IsNotFound(err) {
			return nil
		}
		return err
	}
	g.dropCache(ctx, cacheKey(CollectionPages, id))
	return nil
}

func (g *Gateway) ListPages(ctx context.Context, opts interfaces.QueryOptions) ([]map[string]any, error) {
	return g.store.Query(ctx, CollectionPages, opts)
}

func (g *Gateway) LoadMainContent(ctx context.Context, variant Variant, opts ...ReadOption) (map[string]any, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrVariantInvalid, variant)
	}
	return g.load(ctx, CollectionMainContent, string(variant), g.contentTTL, opts)
}

func (g *Gateway) SaveMainContent(ctx context.Context, variant Variant, doc map[string]any) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %q", ErrVariantInvalid, variant)
	}
	return g.save(ctx, CollectionMainContent, string(variant), doc, g.contentTTL)
}

// PublishDraftToMain copies the draft document verbatim onto main, stamped
// with the publish time. The draft is read fresh so a stale cache can never
// be published.
func (g *Gateway) PublishDraftToMain(ctx context.Context) (map[string]any, error) {
	draft, err := g.load(ctx, CollectionMainContent, string(VariantDraft), g.contentTTL, []ReadOption{ForceRefresh()})
	if err != nil {
		return nil, err
	}

	published := cloneDocument(draft)
	published["publishedAt"] = g.now().Format(time.RFC3339)
	if err := g.save(ctx, CollectionMainContent, string(VariantMain), published, g.contentTTL); err != nil {
		return nil, err
	}
	g.logger.Info("draft published to main")
	return published, nil
}

func (g *Gateway) LoadWordCloud(ctx context.Context, opts ...ReadOption) (map[string]any, error) {
	return g.load(ctx, CollectionWordCloud, DocWordCloud, g.contentTTL, opts)
}

func (g *Gateway) SaveWordCloud(ctx context.Context, doc map[string]any) error {
	return g.save(ctx, CollectionWordCloud, DocWordCloud, doc, g.contentTTL)
}

func (g *Gateway) LoadGlobalSettings(ctx context.Context, opts ...ReadOption) (map[string]any, error) {
	return g.load(ctx, CollectionSettings, DocGlobalSettings, g.contentTTL, opts)
}

func (g *Gateway) SaveGlobalSettings(ctx context.Context, doc map[string]any) error {
	return g.save(ctx, CollectionSettings, DocGlobalSettings, doc, g.contentTTL)
}

func (g *Gateway) load(ctx context.Context, collection, id string, ttl time.Duration, opts []ReadOption) (map[string]any, error) {
	var options readOptions
	for _, opt := range opts {
		opt(&options)
	}

	key := cacheKey(collection, id)
	if g.cache != nil && !options.forceRefresh {
		if cached, err := g.cache.Get(ctx, key); err == nil {
			if doc, ok := cached.(map[string]any); ok {
				return cloneDocument(doc), nil
			}
		} else if !errors.Is(err, interfaces.ErrCacheMiss) {
			g.logger.Warn("cache read failed", "key", key, "error", err)
		}
	}

	doc, err := g.store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	g.fillCache(ctx, key, doc, ttl)
	return doc, nil
}

func (g *Gateway) save(ctx context.Context, collection, id string, doc map[string]any, ttl time.Duration) error {
	if err := g.store.Set(ctx, collection, id, doc, interfaces.SetOptions{}); err != nil {
		return err
	}
	g.fillCache(ctx, cacheKey(collection, id), cloneDocument(doc), ttl)
	return nil
}

func (g *Gateway) fillCache(ctx context.Context, key string, doc map[string]any, ttl time.Duration) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(ctx, key, cloneDocument(doc), ttl); err != nil {
		g.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (g *Gateway) dropCache(ctx context.Context, key string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Delete(ctx, key); err != nil {
		g.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

func cacheKey(collection, id string) string {
	return collection + ":" + id
}
