// Package content loads the site's read-only content store (localized article
// documents plus flat JSON collections) into an immutable snapshot and answers
// queries against it: locale-aware article resolution, event partitioning and
// developer lookups.
//
// A Store is built once with Load and is safe for concurrent use.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// Locale is a supported content language.
type Locale string

const (
	English Locale = "en"
	Finnish Locale = "fi"

	// DefaultLocale is served when a translation is missing.
	DefaultLocale = English
)

// Locales lists the supported locales in display order.
var Locales = []Locale{English, Finnish}

// ErrNotFound is returned when a slug has no content in any resolvable
// locale or a collection has no matching record.
var ErrNotFound = errors.New("content: not found")

// ParseLocale validates a locale path segment. Matching is exact.
func ParseLocale(s string) (Locale, bool) {
	for _, l := range Locales {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Name returns the native display name of the locale.
func (l Locale) Name() string {
	switch l {
	case English:
		return "English"
	case Finnish:
		return "Suomi"
	}
	return string(l)
}

// MetadataError reports a content document whose metadata block could not be
// located or parsed. Such documents are treated as absent.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("content: malformed metadata in %s: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// TitleFromSlug turns "my-article-slug" into "My Article Slug".
func TitleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
