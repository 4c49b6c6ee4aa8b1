package richtext

import (
	"sort"
	"sync"

	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Registry tracks the rich-text editor instances mounted for the currently
// assembled form, keyed by field name. The data collector consults it so a
// live editor's content wins over the stale textarea value underneath it.
type Registry struct {
	mu      sync.RWMutex
	editors map[string]interfaces.RichTextEditor
}

func NewRegistry() *Registry {
	return &Registry{editors: make(map[string]interfaces.RichTextEditor)}
}

// Mount registers an editor for a field, destroying any instance previously
// mounted on the same field.
func (r *Registry) Mount(field string, editor interfaces.RichTextEditor) {
	if field == "" || editor == nil {
		return
	}
	r.mu.Lock()
	previous := r.editors[field]
	r.editors[field] = editor
	r.mu.Unlock()

	if previous != nil {
		previous.Destroy()
	}
}

// Get returns the editor mounted for field, or nil when none is mounted.
func (r *Registry) Get(field string) interfaces.RichTextEditor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.editors[field]
}

// Fields lists mounted field names in stable order.
func (r *Registry) Fields() []string {
	r.mu.RLock()
	fields := make([]string, 0, len(r.editors))
	for field := range r.editors {
		fields = append(fields, field)
	}
	r.mu.RUnlock()

	sort.Strings(fields)
	return fields
}

// DestroyAll tears down every mounted editor. Called before a form rebuild so
// instances belonging to the previous form do not leak into the next one.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	editors := r.editors
	r.editors = make(map[string]interfaces.RichTextEditor)
	r.mu.Unlock()

	for _, editor := range editors {
		editor.Destroy()
	}
}
