package interfaces

// MarkdownParser renders markdown source into HTML.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions tunes a single parse invocation.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
	Sanitize   bool
}
