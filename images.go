package rnfi

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/rnfi/content"
	"github.com/eringen/rnfi/ogimage"
	"github.com/eringen/rnfi/views"
)

const (
	maxAvatarSide   = 256
	maxCustomTitle  = 120
	maxCustomLabel  = 24
	siteCategory    = "COMMUNITY"
	eventCategory   = "EVENT"
	profileCategory = "DEVELOPER"
)

// serveCard writes the preview image cached under key, rendering card on a
// miss. kind labels the preview metrics.
func (a *App) serveCard(c echo.Context, kind, key string, card func() ogimage.Card) error {
	png, hit, err := a.Images.Get(c.Request().Context(), key, func(ctx context.Context) ([]byte, error) {
		return a.og.PNG(ctx, card())
	})
	if err != nil {
		a.Metrics.previews.WithLabelValues(kind, "error").Inc()
		if errors.Is(err, ogimage.ErrFontUnavailable) {
			a.Logger.Error("preview fonts unavailable", "kind", kind, "err", err)
			return echo.NewHTTPError(http.StatusBadGateway, "preview fonts unavailable").SetInternal(err)
		}
		return err
	}
	result := "rendered"
	if hit {
		result = "hit"
	}
	a.Metrics.previews.WithLabelValues(kind, result).Inc()
	return renderPNG(c, png)
}

func (a *App) handleSiteImage(c echo.Context) error {
	return a.serveCard(c, "site", "site", func() ogimage.Card {
		return ogimage.Card{Title: a.Config.Name, Category: siteCategory}
	})
}

func (a *App) handleArticleImage(c echo.Context) error {
	l := localeOf(c)
	slug := c.Param("slug")
	art, err := a.Content.Resolve(slug, l)
	if err != nil {
		// Unknown slugs still get a card titled after the slug.
		return a.serveCard(c, "article", "article/"+slug, func() ogimage.Card {
			return ogimage.Card{Title: content.TitleFromSlug(slug), Slug: slug}
		})
	}
	return a.serveCard(c, "article", "article/"+string(art.Locale)+"/"+slug, func() ogimage.Card {
		card := ogimage.Card{Title: art.Title, Slug: slug}
		if art.Author.Name != "" {
			author := &ogimage.Author{Name: art.Author.Name, Title: art.Author.Role}
			imageURL := art.Author.ImageURL
			if dev, ok := a.Content.FindDeveloperForAuthor(art.Author.Name); ok {
				if author.Title == "" {
					author.Title = dev.Role
				}
				if imageURL == "" {
					imageURL = dev.ImageURL
				}
			}
			author.Image = a.loadAvatar(imageURL)
			card.Author = author
		}
		return card
	})
}

func (a *App) handleEventImage(c echo.Context) error {
	l := localeOf(c)
	slug := c.Param("slug")
	ev, err := a.Content.EventBySlug(slug)
	if errors.Is(err, content.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return a.serveCard(c, "event", "event/"+string(l)+"/"+slug, func() ogimage.Card {
		return ogimage.Card{
			Title:    ev.Title,
			Slug:     slug,
			Category: eventCategory,
			Event: &ogimage.EventInfo{
				Date:  views.FormatDate(l, ev.Date),
				Venue: ev.Venue.Name,
				City:  ev.Venue.City,
			},
		}
	})
}

func (a *App) handleDeveloperImage(c echo.Context) error {
	slug := c.Param("slug")
	dev, err := a.Content.DeveloperBySlug(slug)
	if errors.Is(err, content.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return a.serveCard(c, "developer", "developer/"+slug, func() ogimage.Card {
		return ogimage.Card{
			Title:    dev.Name,
			Slug:     slug,
			Category: profileCategory,
			Author: &ogimage.Author{
				Name:  dev.Name,
				Title: dev.Role,
				Image: a.loadAvatar(dev.ImageURL),
			},
		}
	})
}

// handleCustomImage renders /api/og?title=...&category=... for pages that
// have no card of their own.
func (a *App) handleCustomImage(c echo.Context) error {
	title := truncateRunes(strings.TrimSpace(c.QueryParam("title")), maxCustomTitle)
	if title == "" {
		title = a.Config.Name
	}
	category := truncateRunes(strings.TrimSpace(c.QueryParam("category")), maxCustomLabel)
	key := fmt.Sprintf("custom/%q/%q", category, title)
	return a.serveCard(c, "custom", key, func() ogimage.Card {
		return ogimage.Card{Title: title, Category: category}
	})
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// loadAvatar reads a site-local image such as /public/images/jane.jpg from
// the static directory. Remote or missing images yield nil and the card
// keeps its plain avatar tile.
func (a *App) loadAvatar(ref string) image.Image {
	if ref == "" || strings.Contains(ref, "://") {
		return nil
	}
	name := strings.TrimPrefix(path.Clean("/"+ref), "/")
	name = strings.TrimPrefix(name, "public/")
	if !fs.ValidPath(name) {
		return nil
	}
	f, err := os.DirFS(a.staticDir).Open(name)
	if err != nil {
		a.Logger.Debug("avatar not found", "ref", ref, "err", err)
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		a.Logger.Warn("decode avatar", "ref", ref, "err", err)
		return nil
	}
	return shrink(img, maxAvatarSide)
}

// shrink scales img down so that neither side exceeds side.
func shrink(img image.Image, side int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= side && h <= side {
		return img
	}
	if w >= h {
		h = max(1, h*side/w)
		w = side
	} else {
		w = max(1, w*side/h)
		h = side
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
