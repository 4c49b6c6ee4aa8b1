package di

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/seitenwerk/seitenwerk/internal/activity"
	"github.com/seitenwerk/seitenwerk/internal/editor"
	"github.com/seitenwerk/seitenwerk/internal/logging/gologger"
	"github.com/seitenwerk/seitenwerk/internal/maincontent"
	"github.com/seitenwerk/seitenwerk/internal/markdown"
	"github.com/seitenwerk/seitenwerk/internal/media"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/preview"
	"github.com/seitenwerk/seitenwerk/internal/runtimeconfig"
	"github.com/seitenwerk/seitenwerk/internal/store"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/internal/urls"
	"github.com/seitenwerk/seitenwerk/internal/wordcloud"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Container wires module dependencies from runtime configuration. Hosts
// override collaborators through options; everything left unset falls back
// to a working in-memory default.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	documentStore interfaces.DocumentStore
	gatewayCache  interfaces.CacheProvider
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	uploader        interfaces.Uploader
	activitySink    interfaces.ActivitySink
	authProvider    interfaces.AuthProvider
	richTextFactory interfaces.RichTextFactory
	confirmer       editor.Confirmer
	routeManager    *urlkit.RouteManager

	registry      *templates.Registry
	gateway       *store.Gateway
	recorder      *activity.Recorder
	pageSvc       pages.Service
	contentSvc    maincontent.Service
	wordcloudSvc  wordcloud.Service
	previewRender *preview.Renderer
	themeSelector *preview.ThemeSelector
	resolver      *urls.Resolver
	importer      *markdown.Importer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the runtime logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB injects an existing bun handle instead of opening one from the
// storage config. The caller keeps ownership of the connection.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithDocumentStore overrides the document store entirely.
func WithDocumentStore(ds interfaces.DocumentStore) Option {
	return func(c *Container) {
		c.documentStore = ds
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithGatewayCache overrides the gateway's read cache.
func WithGatewayCache(cache interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.gatewayCache = cache
	}
}

// WithUploader sets the hosted upload provider fronting the local fallback.
func WithUploader(uploader interfaces.Uploader) Option {
	return func(c *Container) {
		c.uploader = uploader
	}
}

// WithActivitySink enables activity recording on mutating operations.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithAuthProvider attributes recorded activity to the current user.
func WithAuthProvider(auth interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.authProvider = auth
	}
}

// WithRichTextFactory supplies the editor implementation mounted on
// rich-text fields.
func WithRichTextFactory(factory interfaces.RichTextFactory) Option {
	return func(c *Container) {
		c.richTextFactory = factory
	}
}

// WithConfirmer supplies the unsaved-changes prompt used by edit sessions.
func WithConfirmer(confirmer editor.Confirmer) Option {
	return func(c *Container) {
		c.confirmer = confirmer
	}
}

// WithTemplateRegistry replaces the built-in template catalog.
func WithTemplateRegistry(registry *templates.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// New builds a container from the given configuration.
func New(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureNavigation()

	if c.registry == nil {
		c.registry = templates.Builtin()
	}
	if err := templates.RegisterCRUDSchemas(c.registry); err != nil {
		return nil, err
	}

	gatewayOpts := []store.GatewayOption{
		store.WithPageTTL(cfg.Cache.PageTTL),
		store.WithContentTTL(cfg.Cache.ContentTTL),
		store.WithGatewayLogger(c.loggerProvider),
	}
	if cfg.Cache.Enabled {
		if c.gatewayCache == nil {
			c.gatewayCache = store.NewMemoryCache()
		}
		gatewayOpts = append(gatewayOpts, store.WithGatewayCache(c.gatewayCache))
	}
	c.gateway = store.NewGateway(c.documentStore, gatewayOpts...)

	if cfg.Features.Activity && c.activitySink != nil {
		c.recorder = activity.NewRecorder(c.activitySink,
			activity.WithAuthProvider(c.authProvider),
			activity.WithLogger(c.loggerProvider),
		)
	}

	c.pageSvc = pages.NewService(c.gateway, c.registry,
		pages.WithLogger(c.loggerProvider),
		pages.WithActivityRecorder(c.recorder),
	)
	c.contentSvc = maincontent.NewService(c.gateway,
		maincontent.WithLogger(c.loggerProvider),
		maincontent.WithActivityRecorder(c.recorder),
	)
	c.wordcloudSvc = wordcloud.NewService(c.gateway,
		wordcloud.WithLogger(c.loggerProvider),
		wordcloud.WithActivityRecorder(c.recorder),
	)

	c.previewRender = preview.NewRenderer(c.registry, preview.WithLogger(c.loggerProvider))
	c.themeSelector = preview.NewThemeSelector(cfg.Theme.DefaultTheme, cfg.Theme.DefaultVariant)

	if cfg.Features.MarkdownImport {
		c.importer = markdown.NewImporter(c.pageSvc, c.registry,
			markdown.WithImporterLogger(c.loggerProvider),
		)
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage() error {
	if c.documentStore != nil {
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	if c.bunDB == nil {
		switch driver {
		case "", "memory":
			c.documentStore = store.NewMemoryStore()
			return nil
		case "sqlite":
			sqlDB, err := sql.Open("sqlite3", c.Config.Storage.DSN)
			if err != nil {
				return fmt.Errorf("di: open sqlite: %w", err)
			}
			c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
			c.ownsDB = true
		case "postgres":
			sqlDB, err := sql.Open("postgres", c.Config.Storage.DSN)
			if err != nil {
				return fmt.Errorf("di: open postgres: %w", err)
			}
			c.bunDB = bun.NewDB(sqlDB, pgdialect.New())
			c.ownsDB = true
		default:
			return fmt.Errorf("di: unsupported storage driver %q", driver)
		}
	}

	c.documentStore = store.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.PageTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureNavigation() {
	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil {
		return
	}

	c.routeManager = urlkit.NewRouteManager(navCfg.RouteConfig)
	c.resolver = urls.NewResolver(urls.Options{
		Manager:   c.routeManager,
		Group:     navCfg.URLKit.Group,
		PageRoute: navCfg.URLKit.PageRoute,
		SlugParam: navCfg.URLKit.SlugParam,
	})
}

// NewEditSession opens a fresh editing session over the page service.
func (c *Container) NewEditSession() *editor.Session {
	coordinatorOpts := []editor.CoordinatorOption{
		editor.WithCoordinatorLogger(c.loggerProvider),
	}
	if c.confirmer != nil {
		coordinatorOpts = append(coordinatorOpts, editor.WithConfirmer(c.confirmer))
	}
	if d := c.Config.Editor.PreviewDebounce; d > 0 {
		coordinatorOpts = append(coordinatorOpts, editor.WithDebounce(d))
	}

	sessionOpts := []editor.SessionOption{
		editor.WithSessionLogger(c.loggerProvider),
		editor.WithSessionCoordinator(editor.NewCoordinator(coordinatorOpts...)),
	}
	if c.richTextFactory != nil {
		sessionOpts = append(sessionOpts, editor.WithSessionRichTextFactory(c.richTextFactory))
	}
	return editor.NewSession(c.pageSvc, c.registry, sessionOpts...)
}

// Uploader returns the configured upload chain: the hosted provider when
// set, backed by the local disk fallback unless local uploads are disabled.
func (c *Container) Uploader() interfaces.Uploader {
	var local interfaces.Uploader
	if dir := strings.TrimSpace(c.Config.Media.UploadDir); dir != "" {
		local = media.NewLocal(dir, c.Config.Media.BaseURL)
	}
	return media.NewChain(c.uploader, local, media.WithChainLogger(c.loggerProvider))
}

// Chrome builds the document chrome used around full-page previews. Theme
// loading failures degrade to an unthemed chrome.
func (c *Container) Chrome() preview.Chrome {
	chrome := preview.Chrome{SiteName: c.Config.SiteName}
	base := strings.TrimSpace(c.Config.Theme.BasePath)
	if base == "" || c.Config.Theme.DefaultTheme == "" {
		return chrome
	}
	if err := c.themeSelector.LoadDir(os.DirFS(base)); err != nil {
		return chrome
	}
	selection, err := c.themeSelector.Select(c.Config.Theme.DefaultTheme, c.Config.Theme.DefaultVariant)
	if err != nil {
		return chrome
	}
	chrome.Selection = selection
	return chrome
}

// Close releases resources the container opened itself.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

// Pages exposes the page service.
func (c *Container) Pages() pages.Service { return c.pageSvc }

// MainContent exposes the homepage content service.
func (c *Container) MainContent() maincontent.Service { return c.contentSvc }

// WordCloud exposes the word cloud service.
func (c *Container) WordCloud() wordcloud.Service { return c.wordcloudSvc }

// Templates exposes the template registry.
func (c *Container) Templates() *templates.Registry { return c.registry }

// Preview exposes the renderer backing live previews.
func (c *Container) Preview() *preview.Renderer { return c.previewRender }

// ThemeSelector exposes the preview theme selector.
func (c *Container) ThemeSelector() *preview.ThemeSelector { return c.themeSelector }

// Gateway exposes the persistence gateway (used by integration tests and
// host migrations).
func (c *Container) Gateway() *store.Gateway { return c.gateway }

// URLs returns the public URL resolver, nil unless navigation is configured.
func (c *Container) URLs() *urls.Resolver { return c.resolver }

// Importer returns the markdown importer, nil unless the feature is enabled.
func (c *Container) Importer() *markdown.Importer { return c.importer }

// LoggerProvider exposes the runtime logger provider, nil when logging is
// disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
