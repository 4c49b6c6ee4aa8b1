package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/styles"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Renderer produces the live preview markup for a page. Rendering is a pure
// function of template, data and settings; the renderer itself only caches
// parsed preview templates.
type Renderer struct {
	registry *templates.Registry
	logger   interfaces.Logger

	mu       sync.Mutex
	compiled map[string]*template.Template
}

type Option func(*Renderer)

func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(r *Renderer) {
		if provider != nil {
			r.logger = logging.PreviewLogger(provider)
		}
	}
}

func NewRenderer(registry *templates.Registry, opts ...Option) *Renderer {
	renderer := &Renderer{
		registry: registry,
		logger:   logging.NoOp(),
		compiled: make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(renderer)
	}
	return renderer
}

// Render builds the preview for templateID. Unknown templates yield a
// placeholder instead of an error so the preview pane always shows something.
// Plain fields are HTML-escaped; only rich-text long-text fields are trusted.
func (r *Renderer) Render(templateID string, data map[string]any, settings styles.Settings) (string, error) {
	schema, err := r.registry.Get(templateID)
	if err != nil {
		r.logger.Warn("preview for unknown template", "template", templateID)
		return placeholder(templateID), nil
	}

	tmpl, err := r.compile(schema)
	if err != nil {
		return "", err
	}

	bound, err := tmpl.Clone()
	if err != nil {
		return "", fmt.Errorf("preview: clone template %q: %w", templateID, err)
	}
	bound.Funcs(helperFuncs(schema, data))

	var body bytes.Buffer
	if err := bound.Execute(&body, nil); err != nil {
		return "", fmt.Errorf("preview: render template %q: %w", templateID, err)
	}

	var out bytes.Buffer
	out.WriteString(`<div class="page-preview"`)
	if style := settings.InlineStyle("--site"); style != "" {
		fmt.Fprintf(&out, ` style="%s"`, template.HTMLEscapeString(style))
	}
	out.WriteString(">")
	out.Write(body.Bytes())
	out.WriteString("</div>")
	return out.String(), nil
}

func (r *Renderer) compile(schema *templates.TemplateSchema) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.compiled[schema.ID]; ok {
		return tmpl, nil
	}

	// Placeholder funcs satisfy parse-time resolution; the real closures are
	// bound onto a clone for every render.
	tmpl, err := template.New(schema.ID).Funcs(helperFuncs(schema, nil)).Parse(schema.PreviewMarkup)
	if err != nil {
		return nil, fmt.Errorf("preview: parse template %q: %w", schema.ID, err)
	}
	r.compiled[schema.ID] = tmpl
	return tmpl, nil
}

func placeholder(templateID string) string {
	return fmt.Sprintf(
		`<div class="page-preview page-preview-error"><p>Unknown template %q.</p></div>`,
		template.HTMLEscapeString(templateID),
	)
}

func helperFuncs(schema *templates.TemplateSchema, data map[string]any) template.FuncMap {
	value := func(name string) (templates.FieldDef, any, bool) {
		def, ok := schema.Field(name)
		if !ok {
			return templates.FieldDef{}, nil, false
		}
		return def, templates.Normalize(def, data[name]), true
	}

	return template.FuncMap{
		"field": func(name string) any {
			def, v, ok := value(name)
			if !ok {
				return ""
			}
			switch def.Type {
			case templates.FieldShortText, templates.FieldLongText, templates.FieldDate:
				return v.(string)
			case templates.FieldBoolean:
				return v.(bool)
			case templates.FieldTagList:
				return templates.FormatTags(v.([]string))
			default:
				return ""
			}
		},
		"rich": func(name string) template.HTML {
			def, v, ok := value(name)
			if !ok {
				return ""
			}
			text, _ := v.(string)
			if def.Type == templates.FieldLongText && def.RichText {
				return template.HTML(text)
			}
			return template.HTML(template.HTMLEscapeString(text))
		},
		"image": func(name string) template.HTML {
			def, v, ok := value(name)
			if !ok || def.Type != templates.FieldSingleImage {
				return ""
			}
			return renderImage(v.(templates.ImageRef))
		},
		"gallery": func(name string) template.HTML {
			def, v, ok := value(name)
			if !ok || def.Type != templates.FieldImageGallery {
				return ""
			}
			var b bytes.Buffer
			for _, item := range v.([]templates.GalleryItem) {
				b.WriteString(`<figure class="gallery-item">`)
				b.WriteString(string(renderImage(item.ImageRef)))
				if item.Caption != "" {
					fmt.Fprintf(&b, "<figcaption>%s</figcaption>", template.HTMLEscapeString(item.Caption))
				}
				b.WriteString("</figure>")
			}
			return template.HTML(b.String())
		},
		"group": func(name string) template.HTML {
			def, v, ok := value(name)
			if !ok || def.Type != templates.FieldRepeatingGroup {
				return ""
			}
			return renderGroups(def, v.([]map[string]any))
		},
		"tags": func(name string) []string {
			def, v, ok := value(name)
			if !ok || def.Type != templates.FieldTagList {
				return nil
			}
			return v.([]string)
		},
	}
}

func renderImage(ref templates.ImageRef) template.HTML {
	if ref.IsZero() {
		return ""
	}
	return template.HTML(fmt.Sprintf(
		`<img src="%s" alt="%s">`,
		template.HTMLEscapeString(ref.URL),
		template.HTMLEscapeString(ref.Alt),
	))
}

func renderGroups(def templates.FieldDef, groups []map[string]any) template.HTML {
	var b bytes.Buffer
	for _, group := range groups {
		b.WriteString(`<section class="group-item">`)
		for _, sub := range def.Subfields {
			v := templates.Normalize(sub, group[sub.Name])
			switch sub.Type {
			case templates.FieldShortText:
				if text := v.(string); text != "" {
					fmt.Fprintf(&b, `<h3 class="group-%s">%s</h3>`, sub.Name, template.HTMLEscapeString(text))
				}
			case templates.FieldLongText, templates.FieldDate:
				if text := v.(string); text != "" {
					fmt.Fprintf(&b, `<p class="group-%s">%s</p>`, sub.Name, template.HTMLEscapeString(text))
				}
			case templates.FieldSingleImage:
				b.WriteString(string(renderImage(v.(templates.ImageRef))))
			case templates.FieldTagList:
				if tags := v.([]string); len(tags) > 0 {
					fmt.Fprintf(&b, `<p class="group-%s">%s</p>`, sub.Name, template.HTMLEscapeString(templates.FormatTags(tags)))
				}
			case templates.FieldBoolean:
				// Flags drive layout in real templates; the generic group
				// rendering has nothing to show for them.
			}
		}
		b.WriteString("</section>")
	}
	return template.HTML(b.String())
}
