package rnfi

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/eringen/rnfi/content"
)

// supportedTags lists content.Locales in the same order.
var supportedTags = []language.Tag{language.English, language.Finnish}

var localeMatcher = language.NewMatcher(supportedTags)

func parseLocaleParam(s string) (content.Locale, bool) {
	return content.ParseLocale(s)
}

// localeMiddleware validates the :locale segment and remembers it as the
// visitor's preference. Unknown locales are a 404.
func (a *App) localeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l, ok := parseLocaleParam(c.Param("locale"))
		if !ok {
			return echo.ErrNotFound
		}
		c.Set(localeKey, l)
		if preferredLocale(c) != l {
			if err := savePreferredLocale(c, l); err != nil {
				a.Logger.Warn("save locale preference", "err", err)
			}
		}
		return next(c)
	}
}

// localeOf returns the locale of the current request, or the default
// locale outside the localized routes.
func localeOf(c echo.Context) content.Locale {
	if l, ok := c.Get(localeKey).(content.Locale); ok {
		return l
	}
	return content.DefaultLocale
}

// preferredLocale returns the locale stored in the session, or "".
func preferredLocale(c echo.Context) content.Locale {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	s, _ := sess.Values[localeKey].(string)
	l, ok := content.ParseLocale(s)
	if !ok {
		return ""
	}
	return l
}

func savePreferredLocale(c echo.Context, l content.Locale) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[localeKey] = string(l)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	// Responses carrying Set-Cookie must stay out of shared caches.
	c.Response().Header().Set("Cache-Control", "private, no-cache")
	return nil
}

// negotiateLocale picks the locale for a visitor arriving without one: the
// stored preference, then Accept-Language, then the default.
func negotiateLocale(c echo.Context) content.Locale {
	if l := preferredLocale(c); l != "" {
		return l
	}
	return matchAcceptLanguage(c.Request().Header.Get("Accept-Language"))
}

func matchAcceptLanguage(header string) content.Locale {
	if header == "" {
		return content.DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return content.DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return content.DefaultLocale
	}
	return content.Locales[idx]
}

func (a *App) handleRoot(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, "/"+string(negotiateLocale(c))+"/")
}
