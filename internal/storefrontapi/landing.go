package storefrontapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/settings"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

func registerLandingRoutes() {
	webserver.ApiGET("/landing", getLanding)
	webserver.ApiPUT("/landing", updateLanding, webserver.RequireAdmin)
}

func getLanding(c echo.Context) error {
	l, err := webserver.GetAppContext(c).Settings().Landing(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Error al cargar la configuracion", err.Error())
	}
	return ok(c, l)
}

func updateLanding(c echo.Context) error {
	var payload settings.Landing
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud invalida", err.Error())
	}
	payload.MainMessage = strings.TrimSpace(payload.MainMessage)
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	mgr := webserver.GetAppContext(c).Settings()
	if err := mgr.SaveLanding(c.Request().Context(), payload); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Error al guardar la configuracion", err.Error())
	}
	u, _ := webserver.GetSession(c).User()
	publish(c, domain.TopicLandingUpdated, domain.AuditEvent{Actor: u.Email, RemoteIP: c.RealIP(), Detail: "landing page"})

	l, err := mgr.Landing(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Error al cargar la configuracion", err.Error())
	}
	return ok(c, l)
}
