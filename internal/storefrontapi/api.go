// Package storefrontapi exposes the storefront views as JSON endpoints.
package storefrontapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/catalog"
	"github.com/sergiomvp10/tutti-services/internal/checkout"
	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

// Init registers every storefront route with the web server.
func Init() {
	registerSessionRoutes()
	registerLandingRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerOrderRoutes()
	registerSystemRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, webserver.Response{Code: "SUCCESS", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, webserver.Response{Code: code, Message: message, Detail: detail})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s", name)
	}
	return id, nil
}

// handleValidationError reports the first failing field of a payload.
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", fieldMessage(fe), map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Datos invalidos", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Password" && fe.Tag() == "min":
		return "La contraseña debe tener al menos 6 caracteres"
	case fe.Tag() == "email":
		return "Correo electronico no valido"
	case fe.Tag() == "required":
		return "Por favor completa todos los campos requeridos"
	}
	return "Datos invalidos"
}

// failErr maps an operation error to the response envelope. Validation
// errors keep their message, upstream errors their detail, and anything
// else gets fallback.
func failErr(c echo.Context, err error, fallback string) error {
	if ve, isVE := domain.AsValidation(err); isVE {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, map[string]string{"field": ve.Field})
	}
	if errors.Is(err, checkout.ErrInProgress) {
		return fail(c, http.StatusConflict, "CHECKOUT_IN_PROGRESS", "Tu pedido ya se esta procesando", nil)
	}
	if ae, isAE := gateway.AsAPIError(err); isAE {
		status := ae.Status
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return fail(c, status, "UPSTREAM_ERROR", ae.Detail, map[string]int{"upstream_status": ae.Status})
	}
	zap.L().Error("storefront request failed",
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err))
	return fail(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", fallback, nil)
}

// userContext carries the session token to the gateway.
func userContext(c echo.Context) context.Context {
	return gateway.WithToken(c.Request().Context(), webserver.GetSession(c).Token())
}

func catalogService(c echo.Context) *catalog.Service {
	return catalog.NewService(webserver.GetAppContext(c).Gateway())
}

func checkoutService(c echo.Context) *checkout.Service {
	appCtx := webserver.GetAppContext(c)
	return checkout.NewService(appCtx.Gateway(), appCtx.Bus(), zap.L())
}

func publish(c echo.Context, topic string, ev interface{}) {
	webserver.GetAppContext(c).Bus().Publish(topic, ev)
}
