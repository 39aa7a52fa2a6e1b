package storefrontapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/session"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"max=50"`
	Address  string `json:"address" validate:"max=300"`
}

type profilePayload struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	IsAdmin       bool         `json:"is_admin"`
	User          *domain.User `json:"user,omitempty"`
	CartItems     int          `json:"cart_items"`
}

func registerSessionRoutes() {
	webserver.ApiGET("/session", currentSession)
	webserver.ApiPOST("/session/login", login)
	webserver.ApiPOST("/session/register", register)
	webserver.ApiPOST("/session/logout", logout)
	webserver.ApiPUT("/session/profile", updateProfile, webserver.RequireLogin)
}

func viewOf(s *session.Session) sessionView {
	v := sessionView{
		Authenticated: s.IsAuthenticated(),
		IsAdmin:       s.IsAdmin(),
		CartItems:     s.Cart.Len(),
	}
	if u, found := s.User(); found {
		v.User = &u
	}
	return v
}

func currentSession(c echo.Context) error {
	return ok(c, viewOf(webserver.GetSession(c)))
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud invalida", err.Error())
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	gw := webserver.GetAppContext(c).Gateway()
	resp, err := gw.Login(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return failErr(c, err, "Error al iniciar sesion")
	}
	s := webserver.GetSession(c)
	s.Authenticate(resp.AccessToken, resp.User)
	zap.L().Info("storefront login", zap.String("email", payload.Email), zap.String("session", s.ID))
	publish(c, domain.TopicSessionLogin, domain.AuditEvent{Actor: payload.Email, RemoteIP: c.RealIP()})
	return ok(c, viewOf(s))
}

func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud invalida", err.Error())
	}
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Name = strings.TrimSpace(payload.Name)
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	gw := webserver.GetAppContext(c).Gateway()
	resp, err := gw.Register(c.Request().Context(), gateway.RegisterRequest{
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
		Phone:    strings.TrimSpace(payload.Phone),
		Address:  strings.TrimSpace(payload.Address),
	})
	if err != nil {
		return failErr(c, err, "Error al registrarse")
	}
	s := webserver.GetSession(c)
	s.Authenticate(resp.AccessToken, resp.User)
	publish(c, domain.TopicSessionRegister, domain.AuditEvent{Actor: payload.Email, RemoteIP: c.RealIP()})
	return ok(c, viewOf(s))
}

// logout drops the credentials; the cart stays with the session.
func logout(c echo.Context) error {
	s := webserver.GetSession(c)
	actor := ""
	if u, found := s.User(); found {
		actor = u.Email
	}
	s.Logout()
	if actor != "" {
		publish(c, domain.TopicSessionLogout, domain.AuditEvent{Actor: actor, RemoteIP: c.RealIP()})
	}
	return ok(c, viewOf(s))
}

func updateProfile(c echo.Context) error {
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud invalida", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	s := webserver.GetSession(c)
	token := s.Token()
	u, err := webserver.GetAppContext(c).Gateway().UpdateProfile(userContext(c), gateway.ProfileUpdate{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Address: payload.Address,
	})
	if err != nil {
		return failErr(c, err, "Error al actualizar el perfil")
	}
	s.Authenticate(token, *u)
	return ok(c, viewOf(s))
}
