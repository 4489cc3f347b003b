package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	articlesDir  = "articles"
	documentName = "page.mdx"

	eventsFile      = "data/events.json"
	developersFile  = "data/developers.json"
	conferencesFile = "data/conferences.json"
	meetupsFile     = "data/meetups.json"
	cfpTipsFile     = "data/cfp-tips.json"
)

// Store is an immutable snapshot of the content store.
type Store struct {
	now      func() time.Time
	location *time.Location
	logger   *slog.Logger

	docs      map[Locale]map[string]*document
	slugs     map[Locale][]string
	malformed []*MetadataError

	events      []eventRecord
	developers  []Developer
	conferences []Conference
	meetups     []Meetup
	cfpTips     []CfpTip
}

// Option configures Load.
type Option func(*Store)

// WithClock sets the clock used for missing article dates and for isPast.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the zone used for events without a valid timezone.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the logger that receives content diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Load reads the whole content store from fsys. Missing collection files and
// a missing articles directory yield empty collections; a collection file
// that is not valid JSON is an error. Malformed article documents are logged
// and reported by Malformed, not returned as errors.
func Load(fsys fs.FS, opts ...Option) (*Store, error) {
	s := &Store{
		now:      time.Now,
		location: time.UTC,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		docs:     make(map[Locale]map[string]*document),
		slugs:    make(map[Locale][]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.loadArticles(fsys); err != nil {
		return nil, err
	}

	var raw []EventData
	if err := readJSON(fsys, eventsFile, &raw); err != nil {
		return nil, err
	}
	s.events = s.indexEvents(raw)

	if err := readJSON(fsys, developersFile, &s.developers); err != nil {
		return nil, err
	}
	sortDevelopers(s.developers, DefaultLocale)

	if err := readJSON(fsys, conferencesFile, &s.conferences); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, meetupsFile, &s.meetups); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, cfpTipsFile, &s.cfpTips); err != nil {
		return nil, err
	}

	s.logger.Info("content loaded",
		"articles_en", len(s.slugs[English]),
		"articles_fi", len(s.slugs[Finnish]),
		"events", len(s.events),
		"developers", len(s.developers),
		"malformed", len(s.malformed),
	)
	return s, nil
}

// Malformed lists the documents excluded because of unparseable metadata.
func (s *Store) Malformed() []*MetadataError {
	out := make([]*MetadataError, len(s.malformed))
	copy(out, s.malformed)
	return out
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

func readJSON(fsys fs.FS, name string, dst any) error {
	b, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) loadArticles(fsys fs.FS) error {
	locales, err := fs.ReadDir(fsys, articlesDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", articlesDir, err)
	}
	loadedAt := s.now().UTC().Format(time.RFC3339)

	for _, le := range locales {
		if !le.IsDir() {
			continue
		}
		locale, ok := ParseLocale(le.Name())
		if !ok {
			s.logger.Warn("skipping unsupported locale directory", "dir", le.Name())
			continue
		}
		dir := path.Join(articlesDir, le.Name())
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return fmt.Errorf("read %s: %w", dir, err)
		}
		docs := make(map[string]*document)
		var slugs []string
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			slug := e.Name()
			p := path.Join(dir, slug, documentName)
			raw, err := fs.ReadFile(fsys, p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			doc := parseDocument(p, slug, locale, string(raw), loadedAt)
			if doc.err != nil {
				s.malformed = append(s.malformed, doc.err)
				s.logger.Warn("excluding malformed article", "path", p, "error", doc.err.Err)
			}
			docs[slug] = doc
			slugs = append(slugs, slug)
		}
		s.docs[locale] = docs
		s.slugs[locale] = slugs
	}
	return nil
}

func sortDevelopers(devs []Developer, locale Locale) {
	c := collate.New(language.Make(string(locale)))
	sort.SliceStable(devs, func(i, j int) bool {
		return c.CompareString(devs[i].Name, devs[j].Name) < 0
	})
}
