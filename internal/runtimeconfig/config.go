package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrStorageDriverUnknown = errors.New("siteadmin config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("siteadmin config: storage dsn is required for database drivers")
var ErrCacheTTLInvalid = errors.New("siteadmin config: cache ttl must be zero or positive")
var ErrEditorDebounceInvalid = errors.New("siteadmin config: editor debounce must be zero or positive")
var ErrMarkdownContentDirRequired = errors.New("siteadmin config: markdown content directory is required when import is enabled")
var ErrMediaUploadDirRequired = errors.New("siteadmin config: media upload directory is required when local uploads are enabled")
var ErrLoggingProviderRequired = errors.New("siteadmin config: logging provider is required when logging is enabled")
var ErrLoggingProviderUnknown = errors.New("siteadmin config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("siteadmin config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("siteadmin config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the admin module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled    bool
	SiteName   string
	Storage    StorageConfig
	Cache      CacheConfig
	Editor     EditorConfig
	Media      MediaConfig
	Markdown   MarkdownConfig
	Navigation NavigationConfig
	Theme      ThemeConfig
	Logging    LoggingConfig
	Features   Features
}

// StorageConfig selects the document store backend.
type StorageConfig struct {
	// Driver is one of "memory", "sqlite", "postgres".
	Driver string
	DSN    string
}

// CacheConfig captures the gateway read cache behaviour. PageTTL applies to
// page documents, ContentTTL to main content and word cloud documents.
type CacheConfig struct {
	Enabled    bool
	PageTTL    time.Duration
	ContentTTL time.Duration
}

// EditorConfig tunes the dirty coordinator.
type EditorConfig struct {
	PreviewDebounce time.Duration
}

// MediaConfig configures the local upload fallback. An empty UploadDir with
// an empty BaseURL disables local uploads; the host's own uploader then
// handles everything.
type MediaConfig struct {
	UploadDir string
	BaseURL   string
}

// MarkdownConfig configures markdown page import.
type MarkdownConfig struct {
	Enabled    bool
	ContentDir string
	Pattern    string
	Recursive  bool
}

// NavigationConfig captures routing configuration for public URL resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	Group     string
	PageRoute string
	SlugParam string
}

// ThemeConfig selects the site chrome theme applied around previews.
type ThemeConfig struct {
	BasePath       string
	DefaultTheme   string
	DefaultVariant string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Logger         bool
	MarkdownImport bool
	Activity       bool
}

// DefaultConfig returns the baseline configuration: in-memory store, cache
// on with the TTLs the admin historically used (5 minutes for pages, 1 hour
// for the rarely edited main content and word cloud).
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		SiteName: "site",
		Storage: StorageConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			PageTTL:    5 * time.Minute,
			ContentTTL: time.Hour,
		},
		Editor: EditorConfig{
			PreviewDebounce: 500 * time.Millisecond,
		},
		Media: MediaConfig{
			UploadDir: "uploads",
			BaseURL:   "/uploads",
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Theme: ThemeConfig{
			BasePath: "themes",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Cache.PageTTL < 0 || cfg.Cache.ContentTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Editor.PreviewDebounce < 0 {
		return ErrEditorDebounceInvalid
	}
	if cfg.Markdown.Enabled && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if strings.TrimSpace(cfg.Media.BaseURL) != "" && strings.TrimSpace(cfg.Media.UploadDir) == "" {
		return ErrMediaUploadDirRequired
	}
	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
