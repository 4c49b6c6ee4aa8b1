package templates

import (
	"testing"

	"github.com/seitenwerk/seitenwerk/internal/identity"
)

func TestOpenAPIDocumentCarriesTemplateIdentity(t *testing.T) {
	schema, err := Builtin().Get("text-image")
	if err != nil {
		t.Fatalf("builtin lookup: %v", err)
	}

	doc := openAPIDocument(schema)
	meta, ok := doc["x-siteadmin"].(map[string]any)
	if !ok {
		t.Fatalf("missing x-siteadmin block: %v", doc)
	}
	if meta["template"] != "text-image" {
		t.Fatalf("unexpected template id: %v", meta["template"])
	}
	if meta["templateUuid"] != identity.TemplateUUID("text-image").String() {
		t.Fatalf("unexpected template uuid: %v", meta["templateUuid"])
	}
}

func TestCrudResourceNames(t *testing.T) {
	if got := crudResource("text-image"); got != "page_text_image" {
		t.Fatalf("unexpected resource name: %q", got)
	}
	if got := componentName("Text & Image"); got != "TextImage" {
		t.Fatalf("unexpected component name: %q", got)
	}
}
