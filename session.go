package pubsitemap

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName   = "admin_session"
	sessionMaxAge = 12 * 60 * 60
	authKey       = "authenticated"
)

func (a *App) newSessionStore() *sessions.CookieStore {
	cs := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   a.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// updateSession applies fn to the admin session and saves it.
func updateSession(c echo.Context, fn func(*sessions.Session)) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	fn(sess)
	return sess.Save(c.Request(), c.Response())
}

func setAdminSession(c echo.Context) error {
	return updateSession(c, func(s *sessions.Session) { s.Values[authKey] = true })
}

func clearAdminSession(c echo.Context) error {
	return updateSession(c, func(s *sessions.Session) {
		delete(s.Values, authKey)
		s.Options.MaxAge = -1
	})
}

// IsAdmin reports whether the request carries an authenticated admin
// session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[authKey].(bool)
	return ok
}

// CsrfToken returns the CSRF token the middleware stored on c.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
