package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/eringen/rnfi/content"
	"github.com/eringen/rnfi/scaffold"
)

// articleData holds the template variables passed to every scaffold template.
type articleData struct {
	Title        string
	Date         string
	Author       string
	Description  string
	Intro        string
	FirstHeading string
}

func runNew(args []string) error {
	flags := flag.NewFlagSet("new", flag.ExitOnError)
	dir := flags.String("content", "content", "content directory")
	author := flags.String("author", os.Getenv("RNFI_AUTHOR"), "author name")
	_ = flags.Parse(args)

	rest := flags.Args()
	if len(rest) < 3 {
		return fmt.Errorf("usage: rnfi new [-content dir] [-author name] <locale> <slug> <title...>")
	}
	locale, ok := content.ParseLocale(rest[0])
	if !ok {
		return fmt.Errorf("unknown locale %q (want one of %v)", rest[0], content.Locales)
	}
	slug := rest[1]
	if !validSlug(slug) {
		return fmt.Errorf("invalid slug %q: use lowercase letters, digits and dashes", slug)
	}
	title := strings.Join(rest[2:], " ")

	outDir := filepath.Join(*dir, "articles", string(locale), slug)
	if _, err := os.Stat(outDir); err == nil {
		return fmt.Errorf("directory %q already exists", outDir)
	}

	data := articleData{
		Title:        title,
		Date:         time.Now().Format("2006-01-02"),
		Author:       *author,
		Description:  "",
		Intro:        "Introduce the topic in a paragraph or two.",
		FirstHeading: "Getting started",
	}
	if locale == content.Finnish {
		data.Intro = "Esittele aihe kappaleella tai kahdella."
		data.FirstHeading = "Aluksi"
	}

	fmt.Printf("Creating article %s/%s\n\n", locale, slug)

	root := scaffold.ArticleRoot
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(outDir, relPath), ".tmpl")
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		raw, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		fmt.Printf("  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Fill in the description, then run 'rnfi check' to validate the metadata.")
	return nil
}

func validSlug(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}
