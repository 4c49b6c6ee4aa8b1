package interfaces

// RichTextEditor is the opaque rich-text collaborator mounted over longText
// controls. The serialized HTML it reports is trusted as pre-sanitized; the
// editor is responsible for not emitting script tags.
type RichTextEditor interface {
	HTML() string
	SetHTML(html string)
	OnChange(fn func(html string))
	Destroy()
}

// RichTextFactory creates editor instances bound to a rendered control.
type RichTextFactory interface {
	Create(containerID string, initialHTML string) (RichTextEditor, error)
}
