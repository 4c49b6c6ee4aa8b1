package templates

// EmptyValue returns the type-appropriate empty default for a field. Every
// renderer and collector degrades to these when a stored value is missing or
// malformed; no field type may fail on an unset value.
func EmptyValue(def FieldDef) any {
	switch def.Type {
	case FieldShortText, FieldLongText, FieldDate:
		return ""
	case FieldBoolean:
		return false
	case FieldSingleImage:
		return ImageRef{}
	case FieldImageGallery:
		return []GalleryItem{}
	case FieldTagList:
		return []string{}
	case FieldRepeatingGroup:
		return []map[string]any{}
	default:
		return nil
	}
}

// DefaultData produces the data object a freshly created page starts with:
// one empty default per declared field.
func DefaultData(schema *TemplateSchema) map[string]any {
	if schema == nil {
		return map[string]any{}
	}
	data := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		data[f.Name] = EmptyValue(f)
	}
	return data
}
