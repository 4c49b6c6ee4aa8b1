package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrTemplateIDRequired  = errors.New("templates: template id is required")
	ErrTemplateFieldsEmpty = errors.New("templates: template requires at least one field")
	ErrTemplateExists      = errors.New("templates: template already registered")
	ErrTemplateNotFound    = errors.New("templates: template not found")
	ErrFieldNameDuplicate  = errors.New("templates: duplicate field name")
	ErrFieldTypeInvalid    = errors.New("templates: unknown field type")
	ErrSubfieldsNotAllowed = errors.New("templates: subfields are only valid on repeatingGroup fields")
	ErrSubfieldsRequired   = errors.New("templates: repeatingGroup fields require subfields")
	ErrRichTextNotLongText = errors.New("templates: rich_text is only valid on longText fields")
)

// NotFoundError carries the missing template id alongside the sentinel.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.ID == "" {
		return ErrTemplateNotFound.Error()
	}
	return fmt.Sprintf("%s: %q", ErrTemplateNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

// Registry stores template schemas keyed by id. Registration happens at
// process start; lookups are pure and synchronous. Callers must treat an
// unknown id as a user-facing validation error, not a crash.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*TemplateSchema
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*TemplateSchema)}
}

// Register records a schema definition after validating its shape.
func (r *Registry) Register(schema TemplateSchema) error {
	if r == nil {
		return ErrTemplateIDRequired
	}
	schema.ID = strings.TrimSpace(schema.ID)
	if schema.ID == "" {
		return ErrTemplateIDRequired
	}
	if err := validateFields(schema.Fields); err != nil {
		return fmt.Errorf("template %q: %w", schema.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*TemplateSchema)
	}
	if _, ok := r.entries[schema.ID]; ok {
		return fmt.Errorf("%w: %q", ErrTemplateExists, schema.ID)
	}
	copied := schema
	copied.Fields = cloneFields(schema.Fields)
	r.entries[schema.ID] = &copied
	return nil
}

// Get resolves a schema by id.
func (r *Registry) Get(id string) (*TemplateSchema, error) {
	if r == nil {
		return nil, &NotFoundError{ID: id}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.entries[strings.TrimSpace(id)]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return schema, nil
}

// Has reports whether a template id is registered.
func (r *Registry) Has(id string) bool {
	_, err := r.Get(id)
	return err == nil
}

// List returns every registered schema ordered by id.
func (r *Registry) List() []*TemplateSchema {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*TemplateSchema, 0, len(r.entries))
	for _, schema := range r.entries {
		out = append(out, schema)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func validateFields(fields []FieldDef) error {
	if len(fields) == 0 {
		return ErrTemplateFieldsEmpty
	}
	seen := map[string]struct{}{}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrFieldNameDuplicate)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrFieldNameDuplicate, name)
		}
		seen[name] = struct{}{}

		if !f.Type.Valid() {
			return fmt.Errorf("%w: %q on field %q", ErrFieldTypeInvalid, f.Type, name)
		}
		if f.RichText && f.Type != FieldLongText {
			return fmt.Errorf("%w: field %q", ErrRichTextNotLongText, name)
		}
		switch f.Type {
		case FieldRepeatingGroup:
			if len(f.Subfields) == 0 {
				return fmt.Errorf("%w: field %q", ErrSubfieldsRequired, name)
			}
			for _, sub := range f.Subfields {
				if sub.Type == FieldRepeatingGroup {
					return fmt.Errorf("templates: nested repeatingGroup not supported on field %q", name)
				}
			}
			if err := validateFields(f.Subfields); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		default:
			if len(f.Subfields) > 0 {
				return fmt.Errorf("%w: field %q", ErrSubfieldsNotAllowed, name)
			}
		}
	}
	return nil
}

func cloneFields(fields []FieldDef) []FieldDef {
	if len(fields) == 0 {
		return nil
	}
	out := make([]FieldDef, len(fields))
	copy(out, fields)
	for i := range out {
		out[i].Subfields = cloneFields(fields[i].Subfields)
	}
	return out
}
