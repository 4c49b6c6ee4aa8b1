package urls

import (
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// Options configures the go-urlkit backed resolver.
type Options struct {
	Manager   *urlkit.RouteManager
	Group     string
	PageRoute string
	SlugParam string
}

// Resolver maps page slugs onto the site's public routes. The preview and
// page listings use it for outbound links.
type Resolver struct {
	manager   *urlkit.RouteManager
	group     string
	pageRoute string
	slugParam string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewResolver constructs a resolver backed by go-urlkit.
func NewResolver(opts Options) *Resolver {
	if opts.Group == "" {
		opts.Group = "frontend"
	}
	if opts.PageRoute == "" {
		opts.PageRoute = "page"
	}
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	return &Resolver{
		manager:    opts.Manager,
		group:      strings.TrimSpace(opts.Group),
		pageRoute:  opts.PageRoute,
		slugParam:  opts.SlugParam,
		groupCache: make(map[string]*urlkit.Group),
	}
}

// PageURL builds the public URL for a page slug.
func (r *Resolver) PageURL(slug string) (string, error) {
	return r.Route(r.pageRoute, map[string]any{r.slugParam: slug})
}

// Route builds a URL for an arbitrary route in the configured group.
func (r *Resolver) Route(route string, params map[string]any) (string, error) {
	if r == nil || r.manager == nil {
		return "", fmt.Errorf("urls: route manager not configured")
	}
	if route == "" {
		return "", fmt.Errorf("urls: route name required")
	}

	group, err := r.groupForPath(r.group)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}

// groupForPath resolves dotted group paths ("frontend.de") against the
// route manager, caching the result. Manager lookups panic on unknown
// names, so both hops go through recover guards.
func (r *Resolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	root, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("urls: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("urls: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
