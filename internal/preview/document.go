package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	gotheme "github.com/goliatone/go-theme"

	"github.com/seitenwerk/seitenwerk/internal/styles"
)

// Chrome wraps a rendered preview body into a standalone HTML document, the
// shape the static preview command writes to disk. Theme tokens from a
// go-theme selection become document level CSS variables; page settings stay
// scoped to the preview wrapper.
type Chrome struct {
	SiteName  string
	Selection *gotheme.Selection
	CSSPrefix string
}

// Document renders the full HTML page around body.
func (c Chrome) Document(title, body string) string {
	prefix := c.CSSPrefix
	if prefix == "" {
		prefix = "--theme"
	}

	var vars map[string]string
	if c.Selection != nil {
		vars = c.Selection.CSSVariables(prefix)
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html lang=\"de\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", template.HTMLEscapeString(c.pageTitle(title)))
	if len(vars) > 0 {
		b.WriteString("<style>:root{")
		for _, name := range sortedKeys(vars) {
			fmt.Fprintf(&b, "%s:%s;", name, vars[name])
		}
		b.WriteString("}</style>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// PageDocument renders template data straight into a standalone document.
func (c Chrome) PageDocument(r *Renderer, title, templateID string, data map[string]any, settings styles.Settings) (string, error) {
	body, err := r.Render(templateID, data, settings)
	if err != nil {
		return "", err
	}
	return c.Document(title, body), nil
}

func (c Chrome) pageTitle(title string) string {
	switch {
	case title == "":
		return c.SiteName
	case c.SiteName == "":
		return title
	default:
		return title + " · " + c.SiteName
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
