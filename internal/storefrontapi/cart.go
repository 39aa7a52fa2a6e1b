package storefrontapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sergiomvp10/tutti-services/internal/cart"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/pricing"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

type cartLine struct {
	cart.Item
	UnitPrice     float64 `json:"unit_price"`
	LineTotal     float64 `json:"line_total"`
	LineTotalText string  `json:"line_total_text"`
}

type cartView struct {
	Items     []cartLine `json:"items"`
	ItemCount float64    `json:"item_count"`
	Total     float64    `json:"total"`
	TotalText string     `json:"total_text"`
}

type addItemPayload struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPOST("/cart/items/:product_id/quick-add", quickAddCartItem)
	webserver.ApiDELETE("/cart/items/:product_id", removeCartItem)
}

func viewCart(store *cart.Store) cartView {
	items := store.Items()
	v := cartView{Items: make([]cartLine, 0, len(items)), ItemCount: store.ItemCount()}
	for _, it := range items {
		total := pricing.Float(it.LineTotal())
		v.Items = append(v.Items, cartLine{
			Item:          it,
			UnitPrice:     pricing.Float(pricing.EffectivePrice(it.Product)),
			LineTotal:     total,
			LineTotalText: pricing.FormatCOP(total),
		})
	}
	v.Total = pricing.Float(store.Total())
	v.TotalText = pricing.FormatCOP(v.Total)
	return v
}

func getCart(c echo.Context) error {
	return ok(c, viewCart(webserver.GetSession(c).Cart))
}

func addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud invalida", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	return addToCart(c, payload.ProductID, payload.Quantity)
}

func quickAddCartItem(c echo.Context) error {
	id, err := parseIDParam(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Producto no valido", nil)
	}
	return addToCart(c, id, 0)
}

// addToCart reads the product from the upstream so the cart always holds
// current prices; quantity 0 adds the minimum order.
func addToCart(c echo.Context, productID int64, quantity float64) error {
	store := webserver.GetSession(c).Cart
	if _, err := catalogService(c).AddToCart(userContext(c), store, productID, quantity); err != nil {
		if gateway.IsNotFound(err) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Producto no encontrado", nil)
		}
		return failErr(c, err, "Error al agregar al carrito")
	}
	return ok(c, viewCart(store))
}

func removeCartItem(c echo.Context) error {
	id, err := parseIDParam(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Producto no valido", nil)
	}
	store := webserver.GetSession(c).Cart
	store.Remove(id)
	return ok(c, viewCart(store))
}
