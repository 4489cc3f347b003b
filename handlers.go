package rnfi

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/rnfi/content"
	"github.com/eringen/rnfi/markdown"
	"github.com/eringen/rnfi/views"
)

const (
	latestArticles = 3
	excerptLength  = 160
)

// page builds the shared page data for a localized page at segs.
func (a *App) page(c echo.Context, l content.Locale, title, description string, segs ...string) views.Page {
	base := a.Config.URL
	if description == "" {
		description = a.Config.Description
	}
	if title == "" {
		title = a.Config.Name
	} else if title != a.Config.Name {
		title += " | " + a.Config.Name
	}

	return views.Page{
		Site:   a.Config.views(),
		Locale: l,
		Path:   strings.TrimPrefix(c.Request().URL.Path, "/"+string(l)),
		Meta: views.PageMeta{
			Title:       title,
			Description: description,
			URL:         localeURL(base, l, segs...),
			OGType:      "website",
			Image:       absURL(base, "/"+string(l)+"/opengraph-image"),
			Alternates:  a.alternates(content.Locales, segs...),
		},
	}
}

// alternates lists the hreflang links of the page at segs in locales. The
// first locale doubles as x-default.
func (a *App) alternates(locales []content.Locale, segs ...string) []views.Alternate {
	out := make([]views.Alternate, 0, len(locales)+1)
	for _, l := range locales {
		out = append(out, views.Alternate{Lang: string(l), URL: localeURL(a.Config.URL, l, segs...)})
	}
	if len(locales) > 0 {
		out = append(out, views.Alternate{Lang: "x-default", URL: localeURL(a.Config.URL, locales[0], segs...)})
	}
	return out
}

// renderedArticle is the HTML of an article document and what is derived
// from it. Documents never change after load, so results are memoized.
type renderedArticle struct {
	body        template.HTML
	toc         []markdown.Heading
	readingTime int
	excerpt     string
}

// renderArticle renders the document served for (slug, l). The memo is
// keyed by the document's own locale, so fallbacks share one entry.
func (a *App) renderArticle(art content.Article) (renderedArticle, error) {
	key := string(art.Locale) + "/" + art.Slug
	if v, ok := a.bodies.Load(key); ok {
		return v.(renderedArticle), nil
	}
	src, err := a.Content.ArticleBody(art.Slug, art.Locale)
	if err != nil {
		return renderedArticle{}, err
	}
	var buf bytes.Buffer
	markdown.RenderMarkdown(&buf, src)
	html := buf.String()
	r := renderedArticle{
		body:        template.HTML(html),
		toc:         markdown.TOC(html),
		readingTime: markdown.ReadingTime(html),
		excerpt:     art.Description,
	}
	if r.excerpt == "" {
		r.excerpt = markdown.Excerpt(html, excerptLength)
	}
	v, _ := a.bodies.LoadOrStore(key, r)
	return v.(renderedArticle), nil
}

func (a *App) summaries(articles []content.Article) []views.ArticleSummary {
	out := make([]views.ArticleSummary, 0, len(articles))
	for _, art := range articles {
		s := views.ArticleSummary{Article: art, Excerpt: art.Description}
		if r, err := a.renderArticle(art); err == nil {
			s.Excerpt = r.excerpt
			s.ReadingTime = r.readingTime
		}
		out = append(out, s)
	}
	return out
}

func (a *App) notFound(c echo.Context) error {
	l := localeOf(c)
	p := a.page(c, l, views.T(l, "error.notFound"), "")
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(views.ErrorPage{Page: p}))
}

func (a *App) handleHome(c echo.Context) error {
	l := localeOf(c)
	p := a.page(c, l, "", views.T(l, "home.tagline"))
	p.Meta.JSONLD = []string{WebsiteJsonLD(a.Config, l)}

	articles := a.Content.ListArticles(l)
	if len(articles) > latestArticles {
		articles = articles[:latestArticles]
	}
	return Render(c, a.Views.Home(views.HomePage{
		Page:     p,
		Events:   a.Content.UpcomingEvents(),
		Articles: a.summaries(articles),
		Meetups:  a.Content.Meetups(),
	}))
}

func (a *App) handleArticles(c echo.Context) error {
	l := localeOf(c)
	p := a.page(c, l, views.T(l, "articles.title"), views.T(l, "articles.description"), "articles")
	return Render(c, a.Views.Articles(views.ArticleListPage{
		Page:     p,
		Articles: a.summaries(a.Content.ListArticles(l)),
	}))
}

func (a *App) handleArticle(c echo.Context) error {
	l := localeOf(c)
	slug := c.Param("slug")
	art, err := a.Content.Resolve(slug, l)
	if errors.Is(err, content.ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	r, err := a.renderArticle(art)
	if err != nil {
		return err
	}

	p := a.page(c, l, art.Title, art.Description, "articles", slug)
	if art.IsFallback() {
		// The default-locale page is the original of untranslated content.
		p.Meta.URL = localeURL(a.Config.URL, content.DefaultLocale, "articles", slug)
	}
	p.Meta.Alternates = a.alternates(a.Content.Translations(slug), "articles", slug)
	p.Meta.OGType = "article"
	p.Meta.Image = absURL(a.Config.URL, art.ImageURL)
	if p.Meta.Description == a.Config.Description && r.excerpt != "" {
		p.Meta.Description = r.excerpt
	}

	page := views.ArticlePage{
		Page:        p,
		Article:     art,
		Body:        r.body,
		TOC:         r.toc,
		ReadingTime: r.readingTime,
	}
	authorURL := art.Author.Href
	if dev, ok := a.Content.FindDeveloperForAuthor(art.Author.Name); ok {
		page.Profile = &dev
		authorURL = localeURL(a.Config.URL, l, "developers", dev.Slug)
	}
	page.Meta.JSONLD = []string{
		ArticleJsonLD(art, a.Config, p.Meta.URL, authorURL),
		BreadcrumbJsonLD(a.Config, l, views.T(l, "nav.home"),
			crumb{Name: views.T(l, "nav.articles"), URL: localeURL(a.Config.URL, l, "articles")},
			crumb{Name: art.Title},
		),
	}
	return Render(c, a.Views.Article(page))
}

func (a *App) handleEvents(c echo.Context) error {
	l := localeOf(c)
	p := a.page(c, l, views.T(l, "events.title"), views.T(l, "events.description"), "events")
	return Render(c, a.Views.Events(views.EventListPage{
		Page:     p,
		Upcoming: a.Content.UpcomingEvents(),
		Past:     a.Content.PastEvents(),
	}))
}

func (a *App) handleEvent(c echo.Context) error {
	l := localeOf(c)
	slug := c.Param("slug")
	ev, err := a.Content.EventBySlug(slug)
	if errors.Is(err, content.ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}

	p := a.page(c, l, ev.Title, ev.Description, "events", slug)
	p.Meta.Image = absURL(a.Config.URL, "/"+string(l)+"/events/"+slug+"/opengraph-image")

	talks := make([]views.TalkView, 0, len(ev.Talks))
	for _, t := range ev.Talks {
		tv := views.TalkView{Talk: t}
		if dev, ok := a.Content.SpeakerProfile(t.Speaker); ok {
			tv.Profile = &dev
		}
		talks = append(talks, tv)
	}
	p.Meta.JSONLD = []string{
		EventJsonLD(ev, a.Config, p.Meta.URL, p.Meta.Image),
		BreadcrumbJsonLD(a.Config, l, views.T(l, "nav.home"),
			crumb{Name: views.T(l, "nav.events"), URL: localeURL(a.Config.URL, l, "events")},
			crumb{Name: ev.Title},
		),
	}
	return Render(c, a.Views.Event(views.EventPage{Page: p, Event: ev, Talks: talks}))
}

func (a *App) handleDevelopers(c echo.Context) error {
	l := localeOf(c)
	p := a.page(c, l, views.T(l, "developers.title"), views.T(l, "developers.description"), "developers")
	return Render(c, a.Views.Developers(views.DeveloperListPage{
		Page:       p,
		Developers: a.Content.AllDevelopers(),
	}))
}

// talksBy lists the talks of every event given by d, newest event first.
// Speakers are matched by profile slug, or by exact name when the talk
// carries no slug.
func (a *App) talksBy(d content.Developer) []views.DeveloperTalk {
	var out []views.DeveloperTalk
	for _, ev := range a.Content.AllEvents() {
		for _, t := range ev.Talks {
			if t.Speaker.Slug == d.Slug || (t.Speaker.Slug == "" && t.Speaker.Name == d.Name) {
				out = append(out, views.DeveloperTalk{Event: ev, Talk: t})
			}
		}
	}
	return out
}

func (a *App) handleDeveloper(c echo.Context) error {
	l := localeOf(c)
	slug := c.Param("slug")
	dev, err := a.Content.DeveloperBySlug(slug)
	if errors.Is(err, content.ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}

	desc := dev.Bio
	if desc == "" {
		desc = dev.Role
	}
	p := a.page(c, l, dev.Name, desc, "developers", slug)
	p.Meta.OGType = "profile"
	p.Meta.Image = absURL(a.Config.URL, "/"+string(l)+"/developers/"+slug+"/opengraph-image")
	p.Meta.JSONLD = []string{
		PersonJsonLD(dev, a.Config, p.Meta.URL),
		BreadcrumbJsonLD(a.Config, l, views.T(l, "nav.home"),
			crumb{Name: views.T(l, "nav.developers"), URL: localeURL(a.Config.URL, l, "developers")},
			crumb{Name: dev.Name},
		),
	}
	return Render(c, a.Views.Developer(views.DeveloperPage{
		Page:      p,
		Developer: dev,
		Talks:     a.talksBy(dev),
	}))
}

func (a *App) handleConferences(c echo.Context) error {
	l := localeOf(c)
	p := a.page(c, l, views.T(l, "conferences.title"), views.T(l, "conferences.description"), "conferences")
	return Render(c, a.Views.Conferences(views.ConferencePage{
		Page:        p,
		Conferences: a.Content.Conferences(),
		Meetups:     a.Content.Meetups(),
		Tips:        a.Content.CfpTips(),
	}))
}

func (a *App) handleStatic(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := localeOf(c)
		p := a.page(c, l, views.T(l, name+".title"), views.T(l, name+".intro"), name)
		return Render(c, a.Views.Static(views.StaticPage{Page: p, Name: name}))
	}
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\nHost: %s\n",
		absURL(a.Config.URL, "/sitemap.xml"), strings.TrimRight(a.Config.URL, "/"))
	return c.String(http.StatusOK, body)
}

var assetExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// handleContentAsset serves images stored next to article documents, such
// as /content/articles/en/my-post/cover.png. Documents themselves are not
// served.
func (a *App) handleContentAsset(c echo.Context) error {
	name := path.Clean(c.Param("*"))
	if !strings.HasPrefix(name, "articles/") || !assetExtensions[strings.ToLower(path.Ext(name))] {
		return echo.ErrNotFound
	}
	if fi, err := fs.Stat(a.contentFS, name); err != nil || fi.IsDir() {
		return echo.ErrNotFound
	}
	http.ServeFileFS(c.Response(), c.Request(), a.contentFS, name)
	return nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		if rerr := a.notFound(c); rerr != nil {
			a.Logger.Error("render not found page", "err", rerr)
		}
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "err", err, "method", c.Request().Method, "uri", c.Request().RequestURI)
		l := localeOf(c)
		p := a.page(c, l, views.T(l, "error.server"), "")
		if rerr := RenderStatus(c, code, a.Views.ServerError(views.ErrorPage{Page: p, Status: code})); rerr != nil {
			a.Logger.Error("render error page", "err", rerr)
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
