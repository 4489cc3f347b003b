// Package rnfi serves the React Native Finland community site: localized
// article, event and developer pages rendered from a read-only content store,
// the SEO surfaces around them (sitemap, RSS, JSON-LD), generated social
// preview images and a contact inbox.
//
// Pages are rendered through ViewFuncs, so a deployment can replace any
// template while keeping the handlers, middleware and storage.
package rnfi

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/rnfi/content"
	"github.com/eringen/rnfi/ogimage"
	"github.com/eringen/rnfi/views"
)

// ViewFuncs holds the components the handlers render. DefaultViews returns
// the built-in templates.
type ViewFuncs struct {
	Home        func(views.HomePage) templ.Component
	Articles    func(views.ArticleListPage) templ.Component
	Article     func(views.ArticlePage) templ.Component
	Events      func(views.EventListPage) templ.Component
	Event       func(views.EventPage) templ.Component
	Developers  func(views.DeveloperListPage) templ.Component
	Developer   func(views.DeveloperPage) templ.Component
	Conferences func(views.ConferencePage) templ.Component
	Static      func(views.StaticPage) templ.Component
	NotFound    func(views.ErrorPage) templ.Component
	ServerError func(views.ErrorPage) templ.Component
}

// DefaultViews returns the templates embedded in package views.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Articles:    views.Articles,
		Article:     views.Article,
		Events:      views.Events,
		Event:       views.Event,
		Developers:  views.Developers,
		Developer:   views.Developer,
		Conferences: views.Conferences,
		Static:      views.Static,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central application. It wires together the content store,
// contact inbox, preview renderer, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *content.Store
	Inbox   *ContactStore
	Images  *ImageCache
	Views   ViewFuncs
	Logger  *slog.Logger
	Metrics *Metrics

	og             *ogimage.Generator
	contactLimiter *ContactLimiter
	customRoutes   []func(*App)
	staticDir      string
	contentFS      fs.FS
	now            func() time.Time
	bodies         sync.Map // articleKey -> renderedArticle
	closeOnce      sync.Once
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		Metrics:   newMetrics(),
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(os.Stderr, cfg.Environment, cfg.LogLevel)
	}
	return a
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// Init loads the content store, opens the inbox and installs middleware and
// routes. Start calls it; tests call it and drive a.Echo directly.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return errors.New("rnfi: SessionSecret is required")
	}
	loc, err := time.LoadLocation(a.Config.Timezone)
	if err != nil {
		return fmt.Errorf("rnfi: timezone: %w", err)
	}

	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
	}
	store, err := content.Load(a.contentFS,
		content.WithClock(a.now),
		content.WithLocation(loc),
		content.WithLogger(a.Logger.With("component", "content")),
	)
	if err != nil {
		return fmt.Errorf("rnfi: load content: %w", err)
	}
	a.Content = store
	a.recordContentMetrics()

	inbox, err := NewContactStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("rnfi: init inbox: %w", err)
	}
	a.Inbox = inbox

	a.Images = NewImageCache(a.Config.ImageCacheTTL)
	var fonts ogimage.FontSource = ogimage.BundledFonts{}
	if a.Config.RemoteFonts {
		fonts = ogimage.NewRemoteFonts(a.Config.FontTimeout)
	}
	a.og = ogimage.New(fonts)
	a.contactLimiter = NewContactLimiter(a.Config.ContactLimit, a.Config.ContactWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) recordContentMetrics() {
	a.Metrics.malformed.Set(float64(len(a.Content.Malformed())))
	for _, l := range content.Locales {
		a.Metrics.contentItems.WithLabelValues("articles_" + string(l)).Set(float64(len(a.Content.ListArticles(l))))
	}
	a.Metrics.contentItems.WithLabelValues("events").Set(float64(len(a.Content.AllEvents())))
	a.Metrics.contentItems.WithLabelValues("developers").Set(float64(len(a.Content.AllDevelopers())))
	a.Metrics.contentItems.WithLabelValues("conferences").Set(float64(len(a.Content.Conferences())))
}

func (a *App) setupRoutes() {
	e := a.Echo

	staticFS, _ := fs.Sub(EmbeddedAssets, "static")
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	e.Static("/public", a.staticDir)
	e.GET("/content/*", a.handleContentAsset)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/metrics", echo.WrapHandler(a.Metrics.handler()))
	e.GET("/", a.handleRoot)

	e.POST("/api/contact", a.handleContact)
	e.GET("/api/og", a.handleCustomImage)

	g := e.Group("/:locale", a.localeMiddleware)
	g.GET("/", a.handleHome)
	g.GET("/feed.xml", a.handleFeed)
	g.GET("/opengraph-image", a.handleSiteImage)
	g.GET("/articles/", a.handleArticles)
	g.GET("/articles/:slug/", a.handleArticle)
	g.GET("/articles/:slug/opengraph-image", a.handleArticleImage)
	g.GET("/events/", a.handleEvents)
	g.GET("/events/:slug/", a.handleEvent)
	g.GET("/events/:slug/opengraph-image", a.handleEventImage)
	g.GET("/developers/", a.handleDevelopers)
	g.GET("/developers/:slug/", a.handleDeveloper)
	g.GET("/developers/:slug/opengraph-image", a.handleDeveloperImage)
	g.GET("/conferences/", a.handleConferences)
	for _, name := range []string{"sponsors", "consulting", "jobs"} {
		g.GET("/"+name+"/", a.handleStatic(name))
	}
}

// Close releases the inbox and stops background work. Call it when the app
// is shutting down.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.contactLimiter != nil {
			a.contactLimiter.Stop()
		}
		if a.Inbox != nil {
			err = a.Inbox.Close()
		}
	})
	return err
}
