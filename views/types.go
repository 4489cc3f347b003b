package views

import (
	"html/template"

	"github.com/eringen/rnfi/content"
	"github.com/eringen/rnfi/markdown"
)

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name          string
	URL           string
	Description   string
	TwitterHandle string
}

// Alternate is one hreflang link of a page.
type Alternate struct {
	Lang string
	URL  string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website", "article" or "profile"
	Image       string // absolute og:image URL
	Alternates  []Alternate
	JSONLD      []string
}

// Page is embedded in every page's data.
type Page struct {
	Site   SiteConfig
	Locale content.Locale
	Meta   PageMeta
	// Path is the request path without its locale prefix. The language
	// switcher appends it to the other locale.
	Path string
}

// ArticleSummary is an article card on a listing.
type ArticleSummary struct {
	content.Article
	Excerpt     string
	ReadingTime int
}

type HomePage struct {
	Page
	Events   []content.Event
	Articles []ArticleSummary
	Meetups  []content.Meetup
}

type ArticleListPage struct {
	Page
	Articles []ArticleSummary
}

type ArticlePage struct {
	Page
	Article     content.Article
	Body        template.HTML
	TOC         []markdown.Heading
	ReadingTime int
	// Profile is the developer matching the author name, if any.
	Profile *content.Developer
}

type EventListPage struct {
	Page
	Upcoming []content.Event
	Past     []content.Event
}

// TalkView pairs a talk with the speaker's profile when one exists.
type TalkView struct {
	content.Talk
	Profile *content.Developer
}

type EventPage struct {
	Page
	Event content.Event
	Talks []TalkView
}

type DeveloperListPage struct {
	Page
	Developers []content.Developer
}

// DeveloperTalk is a talk given by a developer at an event.
type DeveloperTalk struct {
	Event content.Event
	Talk  content.Talk
}

type DeveloperPage struct {
	Page
	Developer content.Developer
	Talks     []DeveloperTalk
}

type ConferencePage struct {
	Page
	Conferences []content.Conference
	Meetups     []content.Meetup
	Tips        []content.CfpTip
}

// StaticPage is one of the text pages (sponsors, consulting, jobs). Its
// copy comes from the label table under Name.
type StaticPage struct {
	Page
	Name string
}

type ErrorPage struct {
	Page
	Status int
}
