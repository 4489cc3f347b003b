package rnfi

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/rnfi/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// absURL resolves a site-relative path (or an absolute URL) against base.
// The path is kept as is, without a trailing slash being added.
func absURL(base, p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// localeURL is the absolute URL of a localized page.
func localeURL(base string, l content.Locale, segs ...string) string {
	return BuildURL(base, append([]string{string(l)}, segs...)...)
}

func marshalJsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func organization(cfg SiteConfig) map[string]any {
	return map[string]any{
		"@type": "Organization",
		"name":  cfg.Name,
		"url":   BuildURL(cfg.URL),
	}
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig, l content.Locale) string {
	return marshalJsonLD(map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
		"inLanguage":  string(l),
		"publisher":   organization(cfg),
	})
}

// ArticleJsonLD returns a JSON-LD string for an Article schema. authorURL is
// the author's profile or homepage and may be empty.
func ArticleJsonLD(a content.Article, cfg SiteConfig, pageURL, authorURL string) string {
	author := map[string]any{
		"@type": "Person",
		"name":  a.Author.Name,
	}
	if authorURL != "" {
		author["url"] = authorURL
	}
	publisher := organization(cfg)
	publisher["logo"] = map[string]any{
		"@type": "ImageObject",
		"url":   absURL(cfg.URL, "/public/favicon/apple-touch-icon.png"),
	}
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      a.Title,
		"description":   a.Description,
		"datePublished": a.Date,
		"dateModified":  a.Date,
		"inLanguage":    string(a.Locale),
		"author":        author,
		"publisher":     publisher,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   pageURL,
		},
	}
	if a.ImageURL != "" {
		data["image"] = map[string]any{
			"@type":  "ImageObject",
			"url":    absURL(cfg.URL, a.ImageURL),
			"width":  1200,
			"height": 630,
		}
	}
	return marshalJsonLD(data)
}

// EventJsonLD returns a JSON-LD string for an Event schema.
func EventJsonLD(e content.Event, cfg SiteConfig, pageURL, imageURL string) string {
	data := map[string]any{
		"@context":            "https://schema.org",
		"@type":               "Event",
		"name":                e.Title,
		"description":         e.Description,
		"eventStatus":         "https://schema.org/EventScheduled",
		"eventAttendanceMode": "https://schema.org/OfflineEventAttendanceMode",
		"location": map[string]any{
			"@type": "Place",
			"name":  e.Venue.Name,
			"address": map[string]string{
				"@type":           "PostalAddress",
				"streetAddress":   e.Venue.Address,
				"addressLocality": e.Venue.City,
				"addressCountry":  "FI",
			},
		},
		"url": pageURL,
	}
	if start := e.Start(); !start.IsZero() {
		data["startDate"] = start.Format("2006-01-02T15:04:05-07:00")
	} else {
		data["startDate"] = e.Date
	}
	if end := e.End(); !end.IsZero() && e.EndTime != "" {
		data["endDate"] = end.Format("2006-01-02T15:04:05-07:00")
	}
	org := organization(cfg)
	if e.Host != "" {
		org["name"] = e.Host
	}
	data["organizer"] = org
	if imageURL != "" {
		data["image"] = imageURL
	}
	if len(e.Talks) > 0 {
		var performers []map[string]string
		for _, t := range e.Talks {
			if t.Speaker.Name != "" {
				performers = append(performers, map[string]string{"@type": "Person", "name": t.Speaker.Name})
			}
		}
		if len(performers) > 0 {
			data["performer"] = performers
		}
	}
	return marshalJsonLD(data)
}

// PersonJsonLD returns a JSON-LD string for a Person schema.
func PersonJsonLD(d content.Developer, cfg SiteConfig, pageURL string) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Person",
		"name":        d.Name,
		"jobTitle":    d.Role,
		"description": d.Bio,
		"url":         pageURL,
	}
	if d.ImageURL != "" {
		data["image"] = absURL(cfg.URL, d.ImageURL)
	}
	if same := d.SameAs(); len(same) > 0 {
		data["sameAs"] = same
	}
	if d.Location != "" {
		city, _, _ := strings.Cut(d.Location, ",")
		data["address"] = map[string]string{
			"@type":           "PostalAddress",
			"addressLocality": strings.TrimSpace(city),
			"addressCountry":  "FI",
		}
	}
	if len(d.Expertise) > 0 {
		data["knowsAbout"] = d.Expertise
	}
	return marshalJsonLD(data)
}

// crumb is one step of a breadcrumb trail. The current page has no URL.
type crumb struct {
	Name string
	URL  string
}

// BreadcrumbJsonLD returns a JSON-LD BreadcrumbList starting at the
// localized home page.
func BreadcrumbJsonLD(cfg SiteConfig, l content.Locale, homeLabel string, trail ...crumb) string {
	items := []map[string]any{{
		"@type":    "ListItem",
		"position": 1,
		"name":     homeLabel,
		"item":     localeURL(cfg.URL, l),
	}}
	for i, c := range trail {
		item := map[string]any{
			"@type":    "ListItem",
			"position": i + 2,
			"name":     c.Name,
		}
		if c.URL != "" {
			item["item"] = c.URL
		}
		items = append(items, item)
	}
	return marshalJsonLD(map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	})
}
