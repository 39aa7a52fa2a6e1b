package storefrontapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sergiomvp10/tutti-services/internal/checkout"
	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

type checkoutPayload struct {
	checkout.Guest
	Notes string `json:"notes" validate:"max=1000"`
}

type paymentOption struct {
	Value domain.PaymentMethod `json:"value"`
	Label string               `json:"label"`
}

type checkoutView struct {
	Cart           cartView        `json:"cart"`
	Guest          bool            `json:"guest"`
	PaymentMethods []paymentOption `json:"payment_methods,omitempty"`
}

func registerCheckoutRoutes() {
	webserver.ApiGET("/checkout", checkoutForm)
	webserver.ApiPOST("/checkout", submitCheckout)
}

// checkoutForm describes the form to render: guests also pick a payment method.
func checkoutForm(c echo.Context) error {
	s := webserver.GetSession(c)
	v := checkoutView{Cart: viewCart(s.Cart), Guest: !s.IsAuthenticated()}
	if v.Guest {
		for _, m := range domain.PaymentMethods() {
			v.PaymentMethods = append(v.PaymentMethods, paymentOption{Value: m, Label: m.Label()})
		}
	}
	return ok(c, v)
}

func submitCheckout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud invalida", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	s := webserver.GetSession(c)
	var buyer checkout.Buyer = payload.Guest
	if token := s.Token(); token != "" {
		u, _ := s.User()
		buyer = checkout.Member{Token: token, Email: u.Email}
	}

	conf, err := checkoutService(c).Submit(c.Request().Context(), s, s.Cart, buyer, payload.Notes, c.RealIP())
	if err != nil {
		return failErr(c, err, checkout.MsgGenericError)
	}
	return ok(c, conf)
}
