package pubsitemap

import (
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// XSLT stylesheets are fetched by the browser from the same origin, so
// 'self' covers both the documents and sitemap.css.
var secureConfig = middleware.SecureConfig{
	XSSProtection:         "1; mode=block",
	ContentTypeNosniff:    "nosniff",
	XFrameOptions:         "DENY",
	ReferrerPolicy:        "strict-origin-when-cross-origin",
	ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:",
	HSTSMaxAge:            31536000,
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("[%s] %s %s -> %d (%s)", v.RequestID, v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))
	e.Use(middleware.SecureWithConfig(secureConfig))
	e.Use(cacheControl)

	// Sitemap documents end the chain here, before sessions, CSRF and
	// trailing slash redirects run.
	e.Use(a.sitemapMiddleware)

	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))
	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/public") || p == "/robots.txt" || isSitemapFile(p)
		},
	}))
}

// sitemapMiddleware hands the request to the sitemap engine and ends the
// chain when the engine served it.
func (a *App) sitemapMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.Sitemap.Dispatch(c.Response(), c.Request()) {
			return nil
		}
		return next(c)
	}
}

// isSitemapFile reports whether p names a sitemap document or stylesheet.
func isSitemapFile(p string) bool {
	base := path.Base(p)
	return strings.HasPrefix(base, "sitemap_") && (strings.HasSuffix(base, ".xml") || strings.HasSuffix(base, ".xsl"))
}

type cacheRule struct {
	match func(c echo.Context) bool
	value string
}

func pathPrefix(prefix string) func(echo.Context) bool {
	return func(c echo.Context) bool { return strings.HasPrefix(c.Request().URL.Path, prefix) }
}

// First match wins.
var cacheRules = []cacheRule{
	{pathPrefix("/public/"), "public, max-age=31536000, immutable"},
	{pathPrefix("/admin"), "no-store"},
	{func(c echo.Context) bool { return c.Request().URL.Path == "/robots.txt" }, "public, max-age=86400"},
	{func(c echo.Context) bool {
		return isSitemapFile(c.Request().URL.Path) || c.QueryParam("sitemap_type") != ""
	}, "public, max-age=3600"},
}

func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		value := "public, max-age=600"
		for _, r := range cacheRules {
			if r.match(c) {
				value = r.value
				break
			}
		}
		c.Response().Header().Set("Cache-Control", value)
		return next(c)
	}
}
