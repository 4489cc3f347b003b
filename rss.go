package rnfi

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/rnfi/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DC      string     `xml:"xmlns:dc,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"dc:creator,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// handleFeed serves the articles written in the requested locale. Fallback
// copies of untranslated articles are left out.
func (a *App) handleFeed(c echo.Context) error {
	l := localeOf(c)
	base := a.Config.URL
	articles := a.Content.ListArticles(l)
	items := make([]rssItem, 0, len(articles))
	var latest time.Time
	for _, art := range a.summaries(articles) {
		pubDate := ""
		if t := art.Published(); !t.IsZero() {
			pubDate = t.Format(time.RFC1123Z)
			if t.After(latest) {
				latest = t
			}
		}
		u := localeURL(base, l, "articles", art.Slug)
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        u,
			Description: art.Excerpt,
			Author:      art.Author.Name,
			PubDate:     pubDate,
			GUID:        u,
		})
	}
	feed := rssXML{
		Version: "2.0",
		DC:      "http://purl.org/dc/elements/1.1/",
		Channel: rssChannel{
			Title:       a.Config.Name + " | " + views.T(l, "nav.articles"),
			Link:        localeURL(base, l),
			Description: views.T(l, "articles.description"),
			Language:    string(l),
			Items:       items,
		},
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.Format(time.RFC1123Z)
	}
	return renderXML(c, "application/rss+xml; charset=utf-8", feed)
}
