// Package views renders the site's pages. Each page is an html/template file
// embedded from templates/ and exposed as a templ.Component so handlers can
// render pages and user-supplied templ components the same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var pageNames = []string{
	"home",
	"articles",
	"article",
	"events",
	"event",
	"developers",
	"developer",
	"conferences",
	"static",
	"error",
}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	base := template.Must(template.New("layout.gohtml").Funcs(funcs).ParseFS(templateFS, "templates/layout.gohtml"))
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl := template.Must(base.Clone())
		out[name] = template.Must(tmpl.ParseFS(templateFS, "templates/"+name+".gohtml"))
	}
	return out
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tmpl, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return tmpl.ExecuteTemplate(w, "layout", data)
	})
}

func Home(p HomePage) templ.Component { return page("home", p) }

func Articles(p ArticleListPage) templ.Component { return page("articles", p) }

func Article(p ArticlePage) templ.Component { return page("article", p) }

func Events(p EventListPage) templ.Component { return page("events", p) }

func Event(p EventPage) templ.Component { return page("event", p) }

func Developers(p DeveloperListPage) templ.Component { return page("developers", p) }

func Developer(p DeveloperPage) templ.Component { return page("developer", p) }

func Conferences(p ConferencePage) templ.Component { return page("conferences", p) }

func Static(p StaticPage) templ.Component { return page("static", p) }

// NotFound renders the 404 page.
func NotFound(p ErrorPage) templ.Component {
	p.Status = 404
	return page("error", p)
}

// ServerError renders the 5xx page.
func ServerError(p ErrorPage) templ.Component {
	if p.Status < 500 {
		p.Status = 500
	}
	return page("error", p)
}
