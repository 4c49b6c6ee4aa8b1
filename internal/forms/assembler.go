package forms

import (
	"net/url"
	"strings"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/richtext"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Form is a fully assembled edit form for one template. Controls appear in
// schema order. RichTextFields names the long-text fields that received a
// mounted editor instance.
type Form struct {
	TemplateID     string
	Controls       []Control
	RichTextFields []string
}

// Values builds the submission payload the form would post, keyed by field
// name. Unchecked checkboxes are absent, matching browser form encoding.
func (f *Form) Values() url.Values {
	values := url.Values{}
	for _, control := range f.Controls {
		if control.Type == templates.FieldBoolean && control.Value == "" {
			continue
		}
		values.Set(control.Field, control.Value)
	}
	return values
}

// HTML concatenates the rendered controls, each wrapped in a form-field
// container div.
func (f *Form) HTML() string {
	var b strings.Builder
	for _, control := range f.Controls {
		b.WriteString(`<div class="form-field" data-field="`)
		b.WriteString(control.Field)
		b.WriteString(`">`)
		b.WriteString(string(control.HTML))
		b.WriteString(`</div>`)
	}
	return b.String()
}

// Assembler builds edit forms from template schemas and current page data.
// Each build tears down the previous form's rich-text editors and mounts
// fresh instances for the new one.
type Assembler struct {
	registry *templates.Registry
	renderer *Renderer
	mounts   *richtext.Registry
	factory  interfaces.RichTextFactory
	logger   interfaces.Logger
}

type AssemblerOption func(*Assembler)

func WithAssemblerLogger(provider interfaces.LoggerProvider) AssemblerOption {
	return func(a *Assembler) {
		if provider != nil {
			a.logger = logging.FormsLogger(provider)
		}
	}
}

func WithRichTextFactory(factory interfaces.RichTextFactory) AssemblerOption {
	return func(a *Assembler) {
		if factory != nil {
			a.factory = factory
		}
	}
}

func NewAssembler(registry *templates.Registry, mounts *richtext.Registry, opts ...AssemblerOption) *Assembler {
	assembler := &Assembler{
		registry: registry,
		renderer: NewRenderer(),
		mounts:   mounts,
		factory:  richtext.NewFactory(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(assembler)
	}
	return assembler
}

// Build assembles the form for templateID populated with data. Missing fields
// fall back to their type defaults. An unknown template yields the lookup
// error together with an empty form so callers can still swap the editor
// surface to an error state.
func (a *Assembler) Build(templateID string, data map[string]any) (*Form, error) {
	a.mounts.DestroyAll()

	schema, err := a.registry.Get(templateID)
	if err != nil {
		a.logger.Warn("form build for unknown template", "template", templateID)
		return &Form{TemplateID: templateID}, err
	}

	form := &Form{TemplateID: templateID, Controls: make([]Control, 0, len(schema.Fields))}
	for _, def := range schema.Fields {
		control, err := a.renderer.Render(def, data[def.Name])
		if err != nil {
			return nil, err
		}
		form.Controls = append(form.Controls, control)

		if def.Type == templates.FieldLongText && def.RichText {
			a.mountEditor(form, def.Name, control.Value)
		}
	}

	a.logger.Debug("form assembled", "template", templateID, "controls", len(form.Controls), "editors", len(form.RichTextFields))
	return form, nil
}

func (a *Assembler) mountEditor(form *Form, field, initialHTML string) {
	editor, err := a.factory.Create("control-"+field, initialHTML)
	if err != nil {
		a.logger.Error("rich-text editor mount failed", "field", field, "error", err)
		return
	}
	a.mounts.Mount(field, editor)
	form.RichTextFields = append(form.RichTextFields, field)
}
