package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/seitenwerk/seitenwerk/internal/templates"
)

// Control is one rendered form input. HTML carries the markup, Value carries
// the wire value the control submits under the field's name. Structured types
// submit their value as embedded JSON through a hidden input.
type Control struct {
	Field    string
	Label    string
	Type     templates.FieldType
	Required bool
	RichText bool
	HTML     template.HTML
	Value    string
}

// Renderer turns field definitions plus current values into form controls.
// Every control is tagged with data-field and data-type attributes so the
// collector side can be driven purely by the template schema.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("controls").Parse(controlTemplates))}
}

// Render produces the control for a field. The value is normalized first, so
// both freshly typed values and values loaded from persisted JSON render the
// same way.
func (r *Renderer) Render(def templates.FieldDef, value any) (Control, error) {
	normalized := templates.Normalize(def, value)

	view := controlView{
		ID:       "control-" + def.Name,
		Field:    def.Name,
		Label:    def.Label,
		Type:     string(def.Type),
		Required: def.Required,
		RichText: def.RichText,
	}

	control := Control{
		Field:    def.Name,
		Label:    def.Label,
		Type:     def.Type,
		Required: def.Required,
		RichText: def.RichText,
	}

	switch def.Type {
	case templates.FieldShortText, templates.FieldLongText, templates.FieldDate:
		text := normalized.(string)
		view.Text = text
		control.Value = text
	case templates.FieldBoolean:
		checked := normalized.(bool)
		view.Checked = checked
		if checked {
			control.Value = "on"
		}
	case templates.FieldTagList:
		joined := templates.FormatTags(normalized.([]string))
		view.Text = joined
		control.Value = joined
	case templates.FieldSingleImage:
		ref := normalized.(templates.ImageRef)
		encoded, err := encodeValue(ref)
		if err != nil {
			return Control{}, err
		}
		view.Image = ref
		view.JSON = encoded
		control.Value = encoded
	case templates.FieldImageGallery:
		items := normalized.([]templates.GalleryItem)
		encoded, err := encodeValue(items)
		if err != nil {
			return Control{}, err
		}
		view.Items = items
		view.JSON = encoded
		control.Value = encoded
	case templates.FieldRepeatingGroup:
		groups := normalized.([]map[string]any)
		encoded, err := encodeValue(groups)
		if err != nil {
			return Control{}, err
		}
		rendered, err := r.renderGroups(def, groups)
		if err != nil {
			return Control{}, err
		}
		view.Groups = rendered
		view.JSON = encoded
		control.Value = encoded
	default:
		return Control{}, fmt.Errorf("forms: unsupported field type %q", def.Type)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(def.Type), view); err != nil {
		return Control{}, fmt.Errorf("forms: render %s: %w", def.Name, err)
	}
	control.HTML = template.HTML(buf.String())
	return control, nil
}

// renderGroups renders the read-only nested sub-forms shown for each group
// entry. The canonical value still travels through the hidden JSON input.
func (r *Renderer) renderGroups(def templates.FieldDef, groups []map[string]any) ([]groupView, error) {
	rendered := make([]groupView, 0, len(groups))
	for i, group := range groups {
		entry := groupView{Index: i + 1}
		for _, sub := range def.Subfields {
			control, err := r.Render(sub, group[sub.Name])
			if err != nil {
				return nil, err
			}
			entry.Controls = append(entry.Controls, control.HTML)
		}
		rendered = append(rendered, entry)
	}
	return rendered, nil
}

func encodeValue(v any) (string, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("forms: encode value: %w", err)
	}
	return string(encoded), nil
}

type controlView struct {
	ID       string
	Field    string
	Label    string
	Type     string
	Required bool
	RichText bool
	Text     string
	Checked  bool
	JSON     string
	Image    templates.ImageRef
	Items    []templates.GalleryItem
	Groups   []groupView
}

type groupView struct {
	Index    int
	Controls []template.HTML
}

var controlTemplates = strings.TrimSpace(`
{{define "shortText"}}<label for="{{.ID}}">{{.Label}}</label>
<input type="text" id="{{.ID}}" name="{{.Field}}" value="{{.Text}}" data-field="{{.Field}}" data-type="{{.Type}}"{{if .Required}} required{{end}}>{{end}}

{{define "date"}}<label for="{{.ID}}">{{.Label}}</label>
<input type="date" id="{{.ID}}" name="{{.Field}}" value="{{.Text}}" data-field="{{.Field}}" data-type="{{.Type}}"{{if .Required}} required{{end}}>{{end}}

{{define "longText"}}<label for="{{.ID}}">{{.Label}}</label>
<textarea id="{{.ID}}" name="{{.Field}}" data-field="{{.Field}}" data-type="{{.Type}}"{{if .RichText}} data-richtext="true"{{end}}{{if .Required}} required{{end}}>{{.Text}}</textarea>{{end}}

{{define "boolean"}}<label for="{{.ID}}"><input type="checkbox" id="{{.ID}}" name="{{.Field}}" data-field="{{.Field}}" data-type="{{.Type}}"{{if .Checked}} checked{{end}}> {{.Label}}</label>{{end}}

{{define "tagList"}}<label for="{{.ID}}">{{.Label}}</label>
<input type="text" id="{{.ID}}" name="{{.Field}}" value="{{.Text}}" placeholder="tag, tag, tag" data-field="{{.Field}}" data-type="{{.Type}}">{{end}}

{{define "singleImage"}}<label for="{{.ID}}">{{.Label}}</label>
{{if .Image.URL}}<img src="{{.Image.URL}}" alt="{{.Image.Alt}}" class="field-image-preview">{{else}}<div class="field-image-placeholder"></div>{{end}}
<button type="button" data-action="upload" data-field="{{.Field}}">Upload image</button>
<input type="text" name="{{.Field}}.alt" value="{{.Image.Alt}}" placeholder="Alt text" data-field="{{.Field}}" data-subfield="alt">
<input type="hidden" id="{{.ID}}" name="{{.Field}}" value="{{.JSON}}" data-field="{{.Field}}" data-type="{{.Type}}">{{end}}

{{define "imageGallery"}}<label for="{{.ID}}">{{.Label}}</label>
<div class="field-gallery">{{range $i, $item := .Items}}<figure><img src="{{$item.URL}}" alt="{{$item.Alt}}">
<input type="text" name="{{$.Field}}.caption.{{$i}}" value="{{$item.Caption}}" placeholder="Caption" data-field="{{$.Field}}" data-subfield="caption" data-index="{{$i}}">
<button type="button" data-action="remove" data-field="{{$.Field}}" data-index="{{$i}}">Remove</button></figure>{{end}}</div>
<button type="button" data-action="add" data-field="{{.Field}}">Add image</button>
<input type="hidden" id="{{.ID}}" name="{{.Field}}" value="{{.JSON}}" data-field="{{.Field}}" data-type="{{.Type}}">{{end}}

{{define "repeatingGroup"}}<label for="{{.ID}}">{{.Label}}</label>
<div class="field-groups">{{range .Groups}}<fieldset class="field-group"><legend>{{$.Label}} {{.Index}}</legend>{{range .Controls}}{{.}}{{end}}</fieldset>{{end}}</div>
<input type="hidden" id="{{.ID}}" name="{{.Field}}" value="{{.JSON}}" data-field="{{.Field}}" data-type="{{.Type}}">{{end}}
`)
