package templates

import (
	"fmt"
	"strings"
	"sync"

	crud "github.com/goliatone/go-crud"

	"github.com/seitenwerk/seitenwerk/internal/identity"
)

var (
	crudMu         sync.Mutex
	crudRegistered = map[string]bool{}
)

// RegisterCRUDSchemas projects every registered template into the go-crud
// schema registry so host admin surfaces can introspect the page resources
// without re-declaring the field catalog. The go-crud registry is process
// global, so resources registered once are skipped on later calls.
func RegisterCRUDSchemas(registry *Registry) error {
	crudMu.Lock()
	defer crudMu.Unlock()

	for _, schema := range registry.List() {
		resource := crudResource(schema.ID)
		if crudRegistered[resource] {
			continue
		}
		doc := openAPIDocument(schema)
		if ok := crud.RegisterSchemaDocument(resource, resource+"s", doc); !ok {
			return fmt.Errorf("templates: crud registry rejected %q", resource)
		}
		crudRegistered[resource] = true
	}
	return nil
}

func crudResource(templateID string) string {
	return "page_" + strings.ReplaceAll(strings.TrimSpace(templateID), "-", "_")
}

func openAPIDocument(schema *TemplateSchema) map[string]any {
	component := componentName(schema.Name)
	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       schema.Name,
			"description": schema.Description,
			"version":     "1.0.0",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				component: JSONSchema(schema),
			},
		},
		"x-siteadmin": map[string]any{
			"template": schema.ID,
			// Stable across processes; hosts key their admin resources on it.
			"templateUuid": identity.TemplateUUID(schema.ID).String(),
		},
	}
}

func componentName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '&'
	})
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		if len(part) > 1 {
			b.WriteString(part[1:])
		}
	}
	if b.Len() == 0 {
		return "Page"
	}
	return b.String()
}
