package storefrontapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/sergiomvp10/tutti-services/internal/catalog"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.ApiGET("/catalog", browseCatalog)
	webserver.ApiGET("/catalog/products/:id", productDetail)
}

func browseCatalog(c echo.Context) error {
	f := catalog.Filter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		CategoryID: cast.ToInt64(c.QueryParam("category_id")),
	}
	page, err := catalogService(c).Browse(userContext(c), f)
	if err != nil {
		return failErr(c, err, "Error al cargar los productos")
	}
	return ok(c, page)
}

func productDetail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Producto no valido", nil)
	}
	dialog, err := catalogService(c).Detail(userContext(c), id, cast.ToFloat64(c.QueryParam("quantity")))
	if err != nil {
		if gateway.IsNotFound(err) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Producto no encontrado", nil)
		}
		return failErr(c, err, "Error al cargar el producto")
	}
	return ok(c, dialog)
}
