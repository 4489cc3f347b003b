package views

import (
	"html/template"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/rnfi/content"
)

// LocalePath builds a site path under locale, ensuring a trailing slash.
func LocalePath(locale content.Locale, pathSegments ...string) string {
	p := path.Join(append([]string{"/", string(locale)}, pathSegments...)...)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FormatDate renders an authored date the way each locale writes it:
// "January 10, 2025" or "10.1.2025". Unparseable dates are returned as is.
func FormatDate(locale content.Locale, date string) string {
	t, err := content.ParseDate(date)
	if err != nil {
		return date
	}
	if locale == content.Finnish {
		return t.Format("2.1.2006")
	}
	return t.Format("January 2, 2006")
}

// EventDate is the display date of an event card.
func EventDate(locale content.Locale, e content.Event) string {
	return FormatDate(locale, e.Date)
}

// EventTime renders "17:30–20:00".
func EventTime(e content.Event) string {
	if e.StartTime == "" {
		return ""
	}
	if e.EndTime == "" {
		return e.StartTime
	}
	return e.StartTime + "–" + e.EndTime
}

// CfpClass returns CSS classes for a conference's call-for-papers badge.
func CfpClass(status string) string {
	base := "badge"
	switch strings.ToLower(status) {
	case "open":
		return base + " badge-open"
	case "closed":
		return base + " badge-closed"
	}
	return base + " badge-muted"
}

// OtherLocales lists the supported locales except l.
func OtherLocales(l content.Locale) []content.Locale {
	var out []content.Locale
	for _, o := range content.Locales {
		if o != l {
			out = append(out, o)
		}
	}
	return out
}

// cardData is the argument of the card partials.
type cardData struct {
	Locale  content.Locale
	Article ArticleSummary
	Event   content.Event
	Href    string
}

func articleItem(l content.Locale, a ArticleSummary) cardData {
	return cardData{Locale: l, Article: a, Href: LocalePath(l, "articles", a.Slug)}
}

func eventItem(l content.Locale, e content.Event) cardData {
	return cardData{Locale: l, Event: e}
}

var funcs = template.FuncMap{
	"t":            T,
	"localePath":   LocalePath,
	"pathEscape":   PathEscape,
	"formatDate":   FormatDate,
	"eventDate":    EventDate,
	"eventTime":    EventTime,
	"cfpClass":     CfpClass,
	"otherLocales": OtherLocales,
	"year":         func() int { return time.Now().Year() },
	"jsonLD":       func(s string) template.JS { return template.JS(s) },
	"join":         strings.Join,
	"articleItem":  articleItem,
	"eventItem":    eventItem,
}
