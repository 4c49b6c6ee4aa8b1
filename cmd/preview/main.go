package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	seitenwerk "github.com/seitenwerk/seitenwerk"
)

func main() {
	if err := runPreview(os.Args[1:]); err != nil {
		log.Fatalf("preview: %v", err)
	}
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	pageID := fs.String("page", "", "Slug of the page to render")
	driver := fs.String("driver", "memory", "Storage driver: memory, sqlite or postgres")
	dsn := fs.String("dsn", "", "Storage DSN for database drivers")
	siteName := fs.String("site-name", "", "Site name shown in the document title")
	themeDir := fs.String("theme-dir", "", "Directory holding the site theme manifest")
	theme := fs.String("theme", "", "Theme name to apply")
	variant := fs.String("variant", "", "Theme variant to apply")
	out := fs.String("out", "", "Output file; stdout when empty")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pageID == "" {
		return fmt.Errorf("page is required")
	}

	cfg := seitenwerk.DefaultConfig()
	cfg.Storage.Driver = *driver
	cfg.Storage.DSN = *dsn
	if *siteName != "" {
		cfg.SiteName = *siteName
	}
	if *themeDir != "" {
		cfg.Theme.BasePath = *themeDir
	}
	if *theme != "" {
		cfg.Theme.DefaultTheme = *theme
	}
	if *variant != "" {
		cfg.Theme.DefaultVariant = *variant
	}

	module, err := seitenwerk.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	page, err := module.Pages().Get(ctx, *pageID)
	if err != nil {
		return err
	}
	settings, err := module.Pages().EffectiveSettings(ctx, page)
	if err != nil {
		return err
	}

	doc, err := module.Chrome().PageDocument(module.Preview(), page.Title, page.TemplateID, page.Data, settings)
	if err != nil {
		return err
	}

	if *out == "" {
		fmt.Print(doc)
		return nil
	}
	return os.WriteFile(*out, []byte(doc), 0o644)
}
