package content

import (
	"sort"
	"time"
)

const untitled = "Untitled"

// Article is the resolved metadata of an article document.
type Article struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Author      Author `json:"author"`
	ImageURL    string `json:"imageUrl"`
	// Locale is the locale whose document was served.
	Locale Locale `json:"locale"`
	// HasTranslation reports whether the requested locale has its own
	// document. It is false when the default-locale document was served as
	// a fallback.
	HasTranslation bool `json:"hasTranslation"`

	published time.Time
}

// Published returns the parsed article date.
func (a Article) Published() time.Time {
	return a.published
}

// IsFallback reports whether the article was served from the default
// locale in place of a missing translation.
func (a Article) IsFallback() bool {
	return !a.HasTranslation
}

// document is a parsed article file in one locale.
type document struct {
	meta      Metadata
	published time.Time
	body      string
	err       *MetadataError
}

func parseDocument(p, slug string, locale Locale, raw, loadedAt string) *document {
	meta, start, end, err := parseMetadata(raw)
	if err != nil {
		return &document{err: &MetadataError{Path: p, Err: err}}
	}
	if meta.Title == "" {
		meta.Title = untitled
	}
	if meta.Date == "" {
		meta.Date = loadedAt
	}
	published, _ := ParseDate(meta.Date)
	return &document{
		meta:      meta,
		published: published,
		body:      processBody(raw, start, end, slug, locale),
	}
}

func articleImageURL(locale Locale, slug string) string {
	return "/" + string(locale) + "/articles/" + slug + "/opengraph-image"
}

func (d *document) article(slug string, requested, used Locale) Article {
	return Article{
		Slug:           slug,
		Title:          d.meta.Title,
		Date:           d.meta.Date,
		Description:    d.meta.Description,
		Author:         d.meta.Author,
		ImageURL:       articleImageURL(requested, slug),
		Locale:         used,
		HasTranslation: requested == used,
		published:      d.published,
	}
}

// resolve picks the physical document for (slug, locale), falling back to
// the default locale when the requested one has no document.
func (s *Store) resolve(slug string, locale Locale) (*document, Locale, error) {
	if d, ok := s.docs[locale][slug]; ok {
		if d.err != nil {
			return nil, "", ErrNotFound
		}
		return d, locale, nil
	}
	if locale != DefaultLocale {
		if d, ok := s.docs[DefaultLocale][slug]; ok && d.err == nil {
			return d, DefaultLocale, nil
		}
	}
	return nil, "", ErrNotFound
}

// Resolve returns the article for slug in locale. When locale has no
// document the default-locale document is returned with HasTranslation set
// to false. ErrNotFound is returned when neither exists or the chosen
// document is malformed.
func (s *Store) Resolve(slug string, locale Locale) (Article, error) {
	d, used, err := s.resolve(slug, locale)
	if err != nil {
		return Article{}, err
	}
	return d.article(slug, locale, used), nil
}

// ArticleBody returns the renderable body of the document Resolve would
// serve for (slug, locale).
func (s *Store) ArticleBody(slug string, locale Locale) (string, error) {
	d, _, err := s.resolve(slug, locale)
	if err != nil {
		return "", err
	}
	return d.body, nil
}

// HasTranslation reports whether locale has its own well-formed document
// for slug, that is whether Resolve(slug, locale) is served without
// fallback.
func (s *Store) HasTranslation(slug string, locale Locale) bool {
	d, ok := s.docs[locale][slug]
	return ok && d.err == nil
}

// Translations lists the locales with a well-formed document for slug.
func (s *Store) Translations(slug string) []Locale {
	var out []Locale
	for _, l := range Locales {
		if s.HasTranslation(slug, l) {
			out = append(out, l)
		}
	}
	return out
}

// ListArticles returns the well-formed articles that exist in locale, newest
// first. Articles with equal dates keep directory order.
func (s *Store) ListArticles(locale Locale) []Article {
	var out []Article
	for _, slug := range s.slugs[locale] {
		d := s.docs[locale][slug]
		if d.err != nil {
			continue
		}
		out = append(out, d.article(slug, locale, locale))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].published.After(out[j].published)
	})
	return out
}

// ArticleSlugs returns every article slug present in any locale, sorted.
func (s *Store) ArticleSlugs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range Locales {
		for _, slug := range s.slugs[l] {
			if _, ok := seen[slug]; ok {
				continue
			}
			seen[slug] = struct{}{}
			out = append(out, slug)
		}
	}
	sort.Strings(out)
	return out
}
