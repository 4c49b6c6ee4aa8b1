package templates

import (
	"strings"
)

// Normalize coerces a stored value into the canonical Go shape for the
// field's type. Values round-tripped through JSON arrive as generic maps and
// slices; values produced in-process arrive typed. Anything unrecognisable
// degrades to the type's empty default rather than failing.
func Normalize(def FieldDef, value any) any {
	if value == nil {
		return EmptyValue(def)
	}
	switch def.Type {
	case FieldShortText, FieldLongText, FieldDate:
		if s, ok := value.(string); ok {
			return s
		}
		return EmptyValue(def)
	case FieldBoolean:
		if b, ok := value.(bool); ok {
			return b
		}
		return false
	case FieldSingleImage:
		return normalizeImageRef(value)
	case FieldImageGallery:
		return normalizeGallery(value)
	case FieldTagList:
		return normalizeTags(value)
	case FieldRepeatingGroup:
		return normalizeGroups(def, value)
	default:
		return EmptyValue(def)
	}
}

// ParseTags splits a comma separated tag string, trimming whitespace and
// dropping empty segments. " a , ,b " becomes ["a", "b"].
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags renders a tag list for display in a single input control.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func normalizeImageRef(value any) ImageRef {
	switch v := value.(type) {
	case ImageRef:
		return v
	case *ImageRef:
		if v == nil {
			return ImageRef{}
		}
		return *v
	case map[string]any:
		return ImageRef{
			URL:      stringAt(v, "url"),
			PublicID: stringAt(v, "publicId"),
			Alt:      stringAt(v, "alt"),
		}
	default:
		return ImageRef{}
	}
}

func normalizeGalleryItem(value any) (GalleryItem, bool) {
	switch v := value.(type) {
	case GalleryItem:
		return v, true
	case map[string]any:
		return GalleryItem{
			ImageRef: ImageRef{
				URL:      stringAt(v, "url"),
				PublicID: stringAt(v, "publicId"),
				Alt:      stringAt(v, "alt"),
			},
			Caption: stringAt(v, "caption"),
		}, true
	default:
		return GalleryItem{}, false
	}
}

func normalizeGallery(value any) []GalleryItem {
	switch v := value.(type) {
	case []GalleryItem:
		return v
	case []any:
		items := make([]GalleryItem, 0, len(v))
		for _, raw := range v {
			if item, ok := normalizeGalleryItem(raw); ok {
				items = append(items, item)
			}
		}
		return items
	default:
		return []GalleryItem{}
	}
}

func normalizeTags(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, raw := range v {
			if s, ok := raw.(string); ok {
				if tag := strings.TrimSpace(s); tag != "" {
					tags = append(tags, tag)
				}
			}
		}
		return tags
	case string:
		// Older documents stored the raw comma separated input.
		return ParseTags(v)
	default:
		return []string{}
	}
}

func normalizeGroups(def FieldDef, value any) []map[string]any {
	raw, ok := value.([]any)
	if !ok {
		if typed, isTyped := value.([]map[string]any); isTyped {
			raw = make([]any, len(typed))
			for i, entry := range typed {
				raw[i] = entry
			}
		} else {
			return []map[string]any{}
		}
	}

	groups := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		group := make(map[string]any, len(def.Subfields))
		for _, sub := range def.Subfields {
			group[sub.Name] = Normalize(sub, m[sub.Name])
		}
		groups = append(groups, group)
	}
	return groups
}

func stringAt(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
