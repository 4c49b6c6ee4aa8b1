package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	seitenwerk "github.com/seitenwerk/seitenwerk"
	"github.com/seitenwerk/seitenwerk/internal/markdown"
)

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories")
	template := fs.String("template", "basic", "Template applied when frontmatter names none")
	driver := fs.String("driver", "memory", "Storage driver: memory, sqlite or postgres")
	dsn := fs.String("dsn", "", "Storage DSN for database drivers")
	dryRun := fs.Bool("dry-run", false, "Parse and validate without persisting pages")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := seitenwerk.DefaultConfig()
	cfg.Storage.Driver = *driver
	cfg.Storage.DSN = *dsn
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = *contentDir
	cfg.Markdown.Pattern = *pattern
	cfg.Markdown.Recursive = *recursive
	cfg.Features.MarkdownImport = true

	module, err := seitenwerk.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	importer := module.Importer()
	if importer == nil {
		return fmt.Errorf("markdown importer not configured")
	}

	result, err := importer.ImportDir(context.Background(), os.DirFS(*contentDir), markdown.ImportOptions{
		DefaultTemplate: *template,
		Pattern:         *pattern,
		Recursive:       *recursive,
		DryRun:          *dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created %d, updated %d, skipped %d\n", len(result.Created), len(result.Updated), len(result.Skipped))
	for _, id := range result.Created {
		fmt.Printf("  created %s\n", id)
	}
	for _, id := range result.Updated {
		fmt.Printf("  updated %s\n", id)
	}
	for _, file := range result.Skipped {
		fmt.Printf("  skipped %s\n", file)
	}
	return nil
}
