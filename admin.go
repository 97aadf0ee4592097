package pubsitemap

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubsitemap/sitemap"
	"github.com/eringen/pubsitemap/store"
	"github.com/eringen/pubsitemap/views"
)

const dashboardSize = 100

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) adminItem(c echo.Context) (sitemap.Item, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return sitemap.Item{}, echo.ErrNotFound
	}
	item, err := a.Store.GetItem(c.Request().Context(), id)
	if store.IsNotFound(err) {
		return sitemap.Item{}, echo.ErrNotFound
	}
	return item, err
}

func (a *App) handleAdminItem(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	item, err := a.adminItem(c)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminItem(item, CsrfToken(c)))
}

// handleAdminItemSave stores the sitemap and robots flags and the manual
// description of one item.
func (a *App) handleAdminItemSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	item, err := a.adminItem(c)
	if err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return err
	}
	var flags sitemap.Flags
	for _, name := range form["flag"] {
		f, ok := sitemap.ParseFlag(name)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown flag "+name)
		}
		flags |= f
	}
	ctx := c.Request().Context()
	if err := a.Store.SetFlags(ctx, item.ID, flags); err != nil {
		return err
	}
	if err := a.Store.SetDescription(ctx, item.ID, strings.TrimSpace(form.Get("description"))); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
}

// handleAdminPing notifies the search engine of every sitemap index. Each
// index is pinged at most once per hour.
func (a *App) handleAdminPing(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	var due []string
	for _, u := range a.Sitemap.IndexURLs() {
		if a.pingLimiter.Allow(u) {
			due = append(due, u)
		}
	}
	msg := "pinged " + strconv.Itoa(len(due)) + " sitemaps"
	if len(due) == 0 {
		msg = "nothing to ping"
	}
	if err := a.Pinger.PingAll(c.Request().Context(), due); err != nil {
		c.Logger().Errorf("ping: %v", err)
		msg = "ping failed: " + err.Error()
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	items, err := a.Store.ListAll(c.Request().Context(), dashboardSize)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(views.Dashboard{
		Items:       items,
		SitemapURLs: a.Sitemap.IndexURLs(),
		Message:     msg,
		CSRFToken:   CsrfToken(c),
	}))
}
