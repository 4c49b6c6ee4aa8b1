package preview

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemeSelector loads theme manifests from disk and resolves the selection
// applied around page previews. Manifests register once; selection is cheap.
type ThemeSelector struct {
	registry       *gotheme.MemoryRegistry
	defaultTheme   string
	defaultVariant string

	mu     sync.Mutex
	loaded map[string]bool
}

func NewThemeSelector(defaultTheme, defaultVariant string) *ThemeSelector {
	return &ThemeSelector{
		registry:       gotheme.NewRegistry(),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
		loaded:         map[string]bool{},
	}
}

// LoadDir reads a theme manifest from the given filesystem and registers it.
// Loading the same theme name twice is a no-op.
func (s *ThemeSelector) LoadDir(fsys fs.FS) error {
	manifest, err := gotheme.LoadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("preview: load theme manifest: %w", err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("preview: theme name required for manifest registration")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[manifest.Name] {
		return nil
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("preview: register theme manifest: %w", err)
	}
	s.loaded[manifest.Name] = true
	return nil
}

// Select resolves a theme/variant pair, falling back to the configured
// defaults when either argument is empty.
func (s *ThemeSelector) Select(theme, variant string) (*gotheme.Selection, error) {
	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	name := strings.TrimSpace(theme)
	if name == "" {
		name = s.defaultTheme
	}
	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(name, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("preview: select theme %s: %w", name, err)
	}
	return selection, nil
}
