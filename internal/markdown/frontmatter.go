package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block a page source file may carry. Custom
// holds every key the envelope does not name; those map onto template fields
// during import.
type FrontMatter struct {
	Title    string         `yaml:"title"`
	Slug     string         `yaml:"slug"`
	Template string         `yaml:"template"`
	Tags     []string       `yaml:"tags"`
	Date     time.Time      `yaml:"date"`
	Draft    bool           `yaml:"draft"`
	Custom   map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits a Markdown source into its metadata and body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}
