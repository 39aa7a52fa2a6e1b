package webserver

import (
	"net/http"

	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/app"
	"github.com/sergiomvp10/tutti-services/internal/session"
)

// storefrontSession resumes the visitor session named by the cookie, opening
// a fresh one when the id is unknown or expired.
func storefrontSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		appCtx := GetAppContext(c)
		cookie, err := echosession.Get(cookieName, c)
		if cookie == nil {
			return err
		}
		if err != nil {
			// An undecodable cookie still yields a usable empty session.
			zap.L().Debug("discarding session cookie", zap.Error(err))
		}
		id, _ := cookie.Values[cookieValueKey].(string)
		sess, created := appCtx.Sessions().Resume(id)
		if created {
			cookie.Values[cookieValueKey] = sess.ID
			if err := cookie.Save(c.Request(), c.Response()); err != nil {
				return err
			}
		}
		c.Set(sessionCtxKey, sess)
		return next(c)
	}
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appCtxKey).(app.AppContext)
}

func GetSession(c echo.Context) *session.Session {
	return c.Get(sessionCtxKey).(*session.Session)
}

// RequireLogin rejects anonymous sessions.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !GetSession(c).IsAuthenticated() {
			return c.JSON(http.StatusUnauthorized, Response{Code: "UNAUTHORIZED", Message: "Debes iniciar sesion"})
		}
		return next(c)
	}
}

// RequireAdmin rejects sessions whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := GetSession(c)
		if !s.IsAuthenticated() {
			return c.JSON(http.StatusUnauthorized, Response{Code: "UNAUTHORIZED", Message: "Debes iniciar sesion"})
		}
		if !s.IsAdmin() {
			return c.JSON(http.StatusForbidden, Response{Code: "FORBIDDEN", Message: "Acceso restringido a administradores"})
		}
		return next(c)
	}
}
