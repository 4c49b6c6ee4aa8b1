package templates

import "strings"

// FieldType is the closed enumeration of editable field kinds. Renderers and
// collectors switch exhaustively over it; there is no duck typing of stored
// values.
type FieldType string

const (
	FieldShortText      FieldType = "shortText"
	FieldLongText       FieldType = "longText"
	FieldBoolean        FieldType = "boolean"
	FieldSingleImage    FieldType = "singleImage"
	FieldImageGallery   FieldType = "imageGallery"
	FieldDate           FieldType = "date"
	FieldTagList        FieldType = "tagList"
	FieldRepeatingGroup FieldType = "repeatingGroup"
)

// Valid reports whether the type is a member of the enumeration.
func (t FieldType) Valid() bool {
	switch t {
	case FieldShortText, FieldLongText, FieldBoolean, FieldSingleImage,
		FieldImageGallery, FieldDate, FieldTagList, FieldRepeatingGroup:
		return true
	default:
		return false
	}
}

// FieldDef describes one named, typed, editable unit of page data.
type FieldDef struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Type      FieldType  `json:"type"`
	Required  bool       `json:"required"`
	RichText  bool       `json:"rich_text,omitempty"`
	Subfields []FieldDef `json:"subfields,omitempty"`
}

// TemplateSchema is the declarative description of a page's editable fields.
// Schemas are immutable once registered and looked up by ID.
type TemplateSchema struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	PreviewMarkup string     `json:"preview_markup"`
	Fields        []FieldDef `json:"fields"`
}

// Field returns the definition for name, or false when the schema does not
// declare it.
func (s *TemplateSchema) Field(name string) (FieldDef, bool) {
	if s == nil {
		return FieldDef{}, false
	}
	name = strings.TrimSpace(name)
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// ImageRef is the stored shape of a singleImage value. A ref with an empty
// URL is unset regardless of the other sub-values.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Alt      string `json:"alt"`
}

// IsZero reports whether the ref counts as unset.
func (r ImageRef) IsZero() bool {
	return strings.TrimSpace(r.URL) == ""
}

// GalleryItem is one entry of an imageGallery value.
type GalleryItem struct {
	ImageRef
	Caption string `json:"caption"`
}
