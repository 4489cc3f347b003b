package rnfi

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/eringen/rnfi/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string        `xml:"loc"`
	LastMod    string        `xml:"lastmod,omitempty"`
	ChangeFreq string        `xml:"changefreq,omitempty"`
	Priority   string        `xml:"priority,omitempty"`
	Links      []sitemapLink `xml:"xhtml:link"`
}

type sitemapLink struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// sitemapPage is a page that exists in every locale.
type sitemapPage struct {
	segs       []string
	changeFreq string
	priority   string
	lastMod    string
	// locales limits the entry to the locales that have their own
	// content. Nil means every locale.
	locales []content.Locale
}

var staticSitemapPages = []sitemapPage{
	{changeFreq: "weekly", priority: "1.0"},
	{segs: []string{"articles"}, changeFreq: "weekly", priority: "0.9"},
	{segs: []string{"events"}, changeFreq: "weekly", priority: "0.9"},
	{segs: []string{"developers"}, changeFreq: "weekly", priority: "0.9"},
	{segs: []string{"conferences"}, changeFreq: "monthly", priority: "0.9"},
	{segs: []string{"consulting"}, changeFreq: "monthly", priority: "0.8"},
	{segs: []string{"jobs"}, changeFreq: "weekly", priority: "0.8"},
	{segs: []string{"sponsors"}, changeFreq: "monthly", priority: "0.7"},
}

func (a *App) sitemapPages() []sitemapPage {
	pages := append([]sitemapPage(nil), staticSitemapPages...)
	for _, slug := range a.Content.ArticleSlugs() {
		locales := a.Content.Translations(slug)
		if len(locales) == 0 {
			continue
		}
		lastMod := ""
		if art, err := a.Content.Resolve(slug, locales[0]); err == nil && !art.Published().IsZero() {
			lastMod = art.Published().Format("2006-01-02")
		}
		pages = append(pages, sitemapPage{
			segs:       []string{"articles", slug},
			changeFreq: "monthly",
			priority:   "0.8",
			lastMod:    lastMod,
			locales:    locales,
		})
	}
	for _, ev := range a.Content.AllEvents() {
		pages = append(pages, sitemapPage{
			segs:       []string{"events", ev.Slug},
			changeFreq: "monthly",
			priority:   "0.7",
		})
	}
	for _, d := range a.Content.AllDevelopers() {
		pages = append(pages, sitemapPage{
			segs:       []string{"developers", d.Slug},
			changeFreq: "monthly",
			priority:   "0.6",
		})
	}
	return pages
}

func (a *App) handleSitemap(c echo.Context) error {
	base := a.Config.URL
	var urls []sitemapURL
	for _, p := range a.sitemapPages() {
		locales := p.locales
		if locales == nil {
			locales = content.Locales
		}
		links := make([]sitemapLink, 0, len(locales)+1)
		for _, l := range locales {
			links = append(links, sitemapLink{Rel: "alternate", HrefLang: string(l), Href: localeURL(base, l, p.segs...)})
		}
		links = append(links, sitemapLink{Rel: "alternate", HrefLang: "x-default", Href: localeURL(base, locales[0], p.segs...)})
		for _, l := range locales {
			urls = append(urls, sitemapURL{
				Loc:        localeURL(base, l, p.segs...),
				LastMod:    p.lastMod,
				ChangeFreq: p.changeFreq,
				Priority:   p.priority,
				Links:      links,
			})
		}
	}
	return renderXML(c, "application/xml; charset=utf-8", sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
		URLs:  urls,
	})
}
