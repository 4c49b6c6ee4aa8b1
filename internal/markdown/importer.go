package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/internal/templates"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// ImportOptions tunes a directory import run.
type ImportOptions struct {
	// DefaultTemplate is used when a file's frontmatter names no template.
	DefaultTemplate string
	// Pattern filters file names; empty means "*.md".
	Pattern string
	// Recursive descends into subdirectories.
	Recursive bool
	// DryRun parses and validates without persisting.
	DryRun bool
}

// ImportResult reports what a run did per page id.
type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
}

// Importer turns Markdown files into page documents: frontmatter feeds the
// page metadata, the rendered body lands in the template's first rich-text
// field.
type Importer struct {
	pages    pages.Service
	registry *templates.Registry
	parser   interfaces.MarkdownParser
	logger   interfaces.Logger
}

type ImporterOption func(*Importer)

func WithImporterLogger(provider interfaces.LoggerProvider) ImporterOption {
	return func(i *Importer) {
		if provider != nil {
			i.logger = logging.MarkdownLogger(provider)
		}
	}
}

func WithParser(parser interfaces.MarkdownParser) ImporterOption {
	return func(i *Importer) {
		if parser != nil {
			i.parser = parser
		}
	}
}

func NewImporter(pageService pages.Service, registry *templates.Registry, opts ...ImporterOption) *Importer {
	importer := &Importer{
		pages:    pageService,
		registry: registry,
		parser:   NewParser(interfaces.ParseOptions{}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(importer)
	}
	return importer
}

// ImportDir walks fsys and imports every matching Markdown file. Draft files
// and files that fail to parse are skipped; a skip never aborts the run.
func (i *Importer) ImportDir(ctx context.Context, fsys fs.FS, opts ImportOptions) (*ImportResult, error) {
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = "basic"
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.md"
	}

	result := &ImportResult{}
	err := fs.WalkDir(fsys, ".", func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if filePath != "." && !opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if ok, _ := path.Match(pattern, entry.Name()); !ok {
			return nil
		}
		if err := i.importFile(ctx, fsys, filePath, opts, result); err != nil {
			i.logger.Warn("skipping file", "file", filePath, "error", err)
			result.Skipped = append(result.Skipped, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown import: %w", err)
	}
	return result, nil
}

func (i *Importer) importFile(ctx context.Context, fsys fs.FS, filePath string, opts ImportOptions, result *ImportResult) error {
	source, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return err
	}

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return err
	}
	if meta.Draft {
		result.Skipped = append(result.Skipped, filePath)
		return nil
	}

	id := meta.Slug
	if id == "" {
		base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
		if id, err = slug.Normalize(base); err != nil {
			return err
		}
	}

	templateID := meta.Template
	if templateID == "" {
		templateID = opts.DefaultTemplate
	}
	schema, err := i.registry.Get(templateID)
	if err != nil {
		return err
	}

	rendered, err := i.parser.Parse(body)
	if err != nil {
		return err
	}

	title := meta.Title
	if title == "" {
		title = id
	}

	page, err := i.pages.Get(ctx, id)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, pages.ErrPageNotFound):
		created = true
		page = &pages.PageDocument{ID: id, Title: title, TemplateID: schema.ID, Data: templates.DefaultData(schema)}
	default:
		return err
	}

	page.Title = title
	page.TemplateID = schema.ID
	applyContent(schema, page.Data, title, string(rendered), meta)

	if !opts.DryRun {
		if created {
			if _, err := i.pages.Create(ctx, pages.CreateRequest{ID: id, Title: title, TemplateID: schema.ID}); err != nil {
				return err
			}
		}
		if _, err := i.pages.Save(ctx, page); err != nil {
			return err
		}
	}

	if created {
		result.Created = append(result.Created, id)
	} else {
		result.Updated = append(result.Updated, id)
	}
	i.logger.Info("imported page", "page", id, "template", schema.ID, "created", created, "dry_run", opts.DryRun)
	return nil
}

// applyContent maps the parsed file onto template fields: the title into the
// first required short text, the body into the first rich-text field, tags
// into the first tag list, and frontmatter custom keys onto same-named
// fields.
func applyContent(schema *templates.TemplateSchema, data map[string]any, title, bodyHTML string, meta FrontMatter) {
	titleDone, bodyDone, tagsDone := false, false, false
	for _, def := range schema.Fields {
		switch {
		case !titleDone && def.Required && def.Type == templates.FieldShortText:
			data[def.Name] = title
			titleDone = true
		case !bodyDone && def.Type == templates.FieldLongText && def.RichText:
			data[def.Name] = bodyHTML
			bodyDone = true
		case !tagsDone && def.Type == templates.FieldTagList && len(meta.Tags) > 0:
			data[def.Name] = append([]string(nil), meta.Tags...)
			tagsDone = true
		}
	}

	for key, value := range meta.Custom {
		if def, ok := schema.Field(key); ok {
			data[key] = templates.Normalize(def, value)
		}
	}
}
