package forms

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/richtext"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Collector reads a submitted form back into a typed data map, driven by the
// template schema. It is the inverse of the renderer: for every field type the
// collector understands the wire encoding the renderer produced.
type Collector struct {
	registry *templates.Registry
	mounts   *richtext.Registry
	logger   interfaces.Logger
}

type CollectorOption func(*Collector)

func WithCollectorLogger(provider interfaces.LoggerProvider) CollectorOption {
	return func(c *Collector) {
		if provider != nil {
			c.logger = logging.FormsLogger(provider)
		}
	}
}

func NewCollector(registry *templates.Registry, mounts *richtext.Registry, opts ...CollectorOption) *Collector {
	collector := &Collector{
		registry: registry,
		mounts:   mounts,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(collector)
	}
	return collector
}

// Collect extracts the data map for templateID from submitted form values.
// Fields absent from the submission get their type defaults. Malformed
// embedded JSON is logged and degrades to the field default; collection never
// fails on bad input, only on an unknown template.
func (c *Collector) Collect(templateID string, values url.Values) (map[string]any, error) {
	schema, err := c.registry.Get(templateID)
	if err != nil {
		return nil, err
	}

	data := make(map[string]any, len(schema.Fields))
	for _, def := range schema.Fields {
		data[def.Name] = c.collectField(def, values)
	}
	return data, nil
}

func (c *Collector) collectField(def templates.FieldDef, values url.Values) any {
	switch def.Type {
	case templates.FieldShortText, templates.FieldDate:
		return values.Get(def.Name)
	case templates.FieldLongText:
		// A mounted editor holds the live content; the textarea underneath
		// it only carries the initial value.
		if def.RichText {
			if editor := c.mounts.Get(def.Name); editor != nil {
				return editor.HTML()
			}
		}
		return values.Get(def.Name)
	case templates.FieldBoolean:
		return parseCheckbox(values.Get(def.Name))
	case templates.FieldTagList:
		return templates.ParseTags(values.Get(def.Name))
	case templates.FieldSingleImage:
		var ref templates.ImageRef
		if !c.decodeField(def, values.Get(def.Name), &ref) {
			return templates.ImageRef{}
		}
		// The alt input may be newer than the JSON mirror.
		if key := def.Name + ".alt"; values.Has(key) {
			ref.Alt = values.Get(key)
		}
		return ref
	case templates.FieldImageGallery:
		var items []templates.GalleryItem
		if !c.decodeField(def, values.Get(def.Name), &items) || items == nil {
			return []templates.GalleryItem{}
		}
		for i := range items {
			if key := fmt.Sprintf("%s.caption.%d", def.Name, i); values.Has(key) {
				items[i].Caption = values.Get(key)
			}
		}
		return items
	case templates.FieldRepeatingGroup:
		var groups []map[string]any
		if !c.decodeField(def, values.Get(def.Name), &groups) || groups == nil {
			return []map[string]any{}
		}
		return templates.Normalize(def, groups)
	default:
		return templates.EmptyValue(def)
	}
}

// decodeField unmarshals an embedded JSON value. Empty input and decode
// failures both report false so the caller substitutes the type default.
func (c *Collector) decodeField(def templates.FieldDef, raw string, target any) bool {
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		c.logger.Warn("discarding malformed field value", "field", def.Name, "type", def.Type, "error", err)
		return false
	}
	return true
}

func parseCheckbox(raw string) bool {
	switch raw {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
