package pages

import (
	"encoding/json"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/styles"
)

// encodePage flattens a page into the schemaless document shape the gateway
// stores. Timestamps travel as RFC 3339 strings.
func encodePage(page *PageDocument) map[string]any {
	doc := map[string]any{
		"id":         page.ID,
		"title":      page.Title,
		"templateId": page.TemplateID,
		"data":       page.Data,
		"settings":   settingsToMap(page.Settings),
	}
	if !page.Created.IsZero() {
		doc["created"] = page.Created.Format(time.RFC3339)
	}
	if !page.Updated.IsZero() {
		doc["updated"] = page.Updated.Format(time.RFC3339)
	}
	return doc
}

// decodePage rebuilds a page from a stored document. Unknown fields are
// dropped; malformed timestamps decode to the zero time.
func decodePage(id string, doc map[string]any) *PageDocument {
	page := &PageDocument{ID: id}
	if v, ok := doc["id"].(string); ok && v != "" {
		page.ID = v
	}
	page.Title, _ = doc["title"].(string)
	page.TemplateID, _ = doc["templateId"].(string)
	if data, ok := doc["data"].(map[string]any); ok {
		page.Data = data
	} else {
		page.Data = map[string]any{}
	}
	if settings, ok := doc["settings"].(map[string]any); ok {
		page.Settings = styles.FromMap(settings)
	}
	page.Created = parseTime(doc["created"])
	page.Updated = parseTime(doc["updated"])
	return page
}

func settingsToMap(settings styles.Settings) map[string]any {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(encoded, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func parseTime(v any) time.Time {
	raw, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
