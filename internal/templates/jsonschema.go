package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrDataValidation = errors.New("templates: data validation failed")

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// DataValidationError surfaces validation issues with schema-aware context.
// Issues are reported in schema field order so the admin can surface them
// next to the offending control predictably.
type DataValidationError struct {
	TemplateID string
	Issues     []ValidationIssue
	Cause      error
}

func (e *DataValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrDataValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *DataValidationError) Unwrap() error {
	return ErrDataValidation
}

// JSONSchema projects a template schema into a JSON Schema document
// (Draft 2020-12) describing valid page data.
func JSONSchema(schema *TemplateSchema) map[string]any {
	if schema == nil {
		return nil
	}
	properties, required := fieldProperties(schema.Fields)
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldProperties(fields []FieldDef) (map[string]any, []string) {
	properties := make(map[string]any, len(fields))
	required := []string{}
	for _, f := range fields {
		properties[f.Name] = fieldProperty(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return properties, required
}

func fieldProperty(f FieldDef) map[string]any {
	switch f.Type {
	case FieldShortText, FieldLongText, FieldDate:
		prop := map[string]any{"type": "string"}
		if f.Required {
			prop["minLength"] = 1
		}
		return prop
	case FieldBoolean:
		return map[string]any{"type": "boolean"}
	case FieldSingleImage:
		return imageRefProperty()
	case FieldImageGallery:
		item := imageRefProperty()
		item["properties"].(map[string]any)["caption"] = map[string]any{"type": "string"}
		return map[string]any{"type": "array", "items": item}
	case FieldTagList:
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	case FieldRepeatingGroup:
		properties, required := fieldProperties(f.Subfields)
		item := map[string]any{
			"type":                 "object",
			"properties":           properties,
			"additionalProperties": false,
		}
		if len(required) > 0 {
			item["required"] = required
		}
		return map[string]any{"type": "array", "items": item}
	default:
		return map[string]any{}
	}
}

func imageRefProperty() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url":      map[string]any{"type": "string"},
			"publicId": map[string]any{"type": "string"},
			"alt":      map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}

// Validator validates page data payloads against template schemas, caching
// compiled schemas per template id.
type Validator struct {
	registry *Registry

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator constructs a validator bound to the given registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{
		registry: registry,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ValidateData checks a data payload against the named template. Unknown
// template ids surface the registry's NotFoundError; payload violations are
// reported as a DataValidationError with issues ordered by schema fields.
func (v *Validator) ValidateData(templateID string, data map[string]any) error {
	schema, err := v.registry.Get(templateID)
	if err != nil {
		return err
	}
	compiled, err := v.compile(schema)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	if err := compiled.Validate(normalizePayload(data)); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &DataValidationError{
				TemplateID: schema.ID,
				Issues:     orderIssues(schema, collectIssues(validationErr)),
				Cause:      err,
			}
		}
		return &DataValidationError{TemplateID: schema.ID, Cause: err}
	}
	return nil
}

func (v *Validator) compile(schema *TemplateSchema) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok := v.compiled[schema.ID]; ok {
		return compiled, nil
	}

	encoded, err := json.Marshal(JSONSchema(schema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, err
	}
	v.compiled[schema.ID] = compiled
	return compiled, nil
}

// normalizePayload round-trips the payload through JSON so typed values
// (ImageRef, GalleryItem, []string) validate as their serialized shapes.
func normalizePayload(data map[string]any) any {
	encoded, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var generic any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return data
	}
	return generic
}

func collectIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

// orderIssues sorts issues into schema field order; issues that cannot be
// attributed to a declared field keep their relative position at the end.
func orderIssues(schema *TemplateSchema, issues []ValidationIssue) []ValidationIssue {
	if len(issues) < 2 {
		return issues
	}
	rank := make(map[string]int, len(schema.Fields))
	for i, f := range schema.Fields {
		rank[f.Name] = i
	}
	ranked := make([]int, len(issues))
	for i, issue := range issues {
		ranked[i] = len(schema.Fields)
		segments := strings.Split(strings.TrimPrefix(issue.Location, "/"), "/")
		if len(segments) > 0 {
			if r, ok := rank[segments[0]]; ok {
				ranked[i] = r
			}
		}
	}
	out := make([]ValidationIssue, len(issues))
	copy(out, issues)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && ranked[j-1] > ranked[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
		}
	}
	return out
}
