package templates

// Builtin returns the registry preloaded with the template catalog the admin
// ships with. The catalog is defined at process start and never mutated.
func Builtin() *Registry {
	registry := NewRegistry()
	for _, schema := range builtinSchemas() {
		// Catalog entries are validated by tests; a bad builtin is a
		// programming error, not a runtime condition.
		if err := registry.Register(schema); err != nil {
			panic(err)
		}
	}
	return registry
}

func builtinSchemas() []TemplateSchema {
	return []TemplateSchema{
		{
			ID:          "basic",
			Name:        "Basic Page",
			Description: "A single-column page with a heading and free text.",
			PreviewMarkup: `<article class="page page-basic">
  <h1>{{field "title"}}</h1>
  <h2 class="subtitle">{{field "subtitle"}}</h2>
  <div class="content">{{rich "content"}}</div>
</article>`,
			Fields: []FieldDef{
				{Name: "title", Label: "Title", Type: FieldShortText, Required: true},
				{Name: "subtitle", Label: "Subtitle", Type: FieldShortText},
				{Name: "content", Label: "Content", Type: FieldLongText, RichText: true},
			},
		},
		{
			ID:          "text-image",
			Name:        "Text & Image",
			Description: "Text beside a single feature image.",
			PreviewMarkup: `<article class="page page-text-image">
  <h1>{{field "title"}}</h1>
  <div class="columns">
    <div class="content">{{rich "body"}}</div>
    <figure>{{image "image"}}</figure>
  </div>
</article>`,
			Fields: []FieldDef{
				{Name: "title", Label: "Title", Type: FieldShortText, Required: true},
				{Name: "body", Label: "Body", Type: FieldLongText, RichText: true},
				{Name: "image", Label: "Image", Type: FieldSingleImage},
				{Name: "imageLeft", Label: "Image on the left", Type: FieldBoolean},
			},
		},
		{
			ID:          "gallery",
			Name:        "Gallery",
			Description: "An ordered image gallery with captions.",
			PreviewMarkup: `<article class="page page-gallery">
  <h1>{{field "title"}}</h1>
  <p class="intro">{{field "intro"}}</p>
  <div class="gallery">{{gallery "images"}}</div>
</article>`,
			Fields: []FieldDef{
				{Name: "title", Label: "Title", Type: FieldShortText, Required: true},
				{Name: "intro", Label: "Introduction", Type: FieldShortText},
				{Name: "images", Label: "Images", Type: FieldImageGallery},
				{Name: "tags", Label: "Tags", Type: FieldTagList},
			},
		},
		{
			ID:          "landing",
			Name:        "Landing Page",
			Description: "A hero section followed by repeating feature blocks.",
			PreviewMarkup: `<article class="page page-landing">
  <header class="hero">
    <h1>{{field "headline"}}</h1>
    <p>{{field "tagline"}}</p>
    <figure>{{image "heroImage"}}</figure>
  </header>
  <div class="features">{{group "features"}}</div>
</article>`,
			Fields: []FieldDef{
				{Name: "headline", Label: "Headline", Type: FieldShortText, Required: true},
				{Name: "tagline", Label: "Tagline", Type: FieldShortText},
				{Name: "heroImage", Label: "Hero image", Type: FieldSingleImage},
				{Name: "features", Label: "Features", Type: FieldRepeatingGroup, Subfields: []FieldDef{
					{Name: "heading", Label: "Heading", Type: FieldShortText, Required: true},
					{Name: "text", Label: "Text", Type: FieldLongText},
					{Name: "icon", Label: "Icon", Type: FieldSingleImage},
				}},
				{Name: "showContact", Label: "Show contact section", Type: FieldBoolean},
			},
		},
		{
			ID:          "contact",
			Name:        "Contact",
			Description: "Contact details with an optional portrait.",
			PreviewMarkup: `<article class="page page-contact">
  <h1>{{field "title"}}</h1>
  <figure class="portrait">{{image "portrait"}}</figure>
  <div class="content">{{rich "text"}}</div>
  <p class="email">{{field "email"}}</p>
  <p class="updated">{{field "availableFrom"}}</p>
</article>`,
			Fields: []FieldDef{
				{Name: "title", Label: "Title", Type: FieldShortText, Required: true},
				{Name: "portrait", Label: "Portrait", Type: FieldSingleImage},
				{Name: "text", Label: "Text", Type: FieldLongText, RichText: true},
				{Name: "email", Label: "E-mail address", Type: FieldShortText},
				{Name: "availableFrom", Label: "Available from", Type: FieldDate},
			},
		},
	}
}
