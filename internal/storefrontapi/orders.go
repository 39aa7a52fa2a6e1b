package storefrontapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/export"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/orderstatus"
	"github.com/sergiomvp10/tutti-services/internal/pricing"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

type orderCard struct {
	domain.Order
	StatusView  orderstatus.Presentation `json:"status_view"`
	TotalText   string                   `json:"total_text"`
	Cancellable bool                     `json:"cancellable"`
	// TotalsConsistent is false when an item subtotal or the order total
	// disagrees with quantity * discounted price.
	TotalsConsistent bool `json:"totals_consistent"`
}

type orderSummary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

type orderHistory struct {
	Orders  []orderCard  `json:"orders"`
	Summary orderSummary `json:"summary"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders, webserver.RequireLogin)
	webserver.ApiPOST("/orders/:id/cancel", cancelOrder, webserver.RequireLogin)
	webserver.ApiGET("/orders/export.csv", exportOrdersCSV, webserver.RequireLogin)
	webserver.ApiGET("/orders/export.xlsx", exportOrdersXLSX, webserver.RequireLogin)
	webserver.ApiGET("/order-statuses", listOrderStatuses)
}

func summarize(orders []domain.Order) orderSummary {
	sum := orderSummary{Count: len(orders)}
	if len(orders) == 0 {
		return sum
	}
	totals := make(stats.Float64Data, 0, len(orders))
	for _, o := range orders {
		totals = append(totals, o.Total)
	}
	sum.Sum, _ = totals.Sum()
	mean, _ := totals.Mean()
	median, _ := totals.Median()
	sum.Mean, _ = stats.Round(mean, 2)
	sum.Median, _ = stats.Round(median, 2)
	return sum
}

// totalsConsistent recomputes every item subtotal and checks that the order
// total is their sum. Orders listed without items are not checked.
func totalsConsistent(o domain.Order) bool {
	if len(o.Items) == 0 {
		return true
	}
	sum := decimal.Zero
	for _, it := range o.Items {
		sub := pricing.Subtotal(it.Quantity, it.Price, it.Discount)
		if !sub.Equal(decimal.NewFromFloat(it.Subtotal).Round(2)) {
			return false
		}
		sum = sum.Add(sub)
	}
	return sum.Equal(decimal.NewFromFloat(o.Total).Round(2))
}

func fetchOrders(c echo.Context) ([]domain.Order, error) {
	return webserver.GetAppContext(c).Gateway().ListOrders(userContext(c), strings.TrimSpace(c.QueryParam("status")))
}

func listOrders(c echo.Context) error {
	orders, err := fetchOrders(c)
	if err != nil {
		return failErr(c, err, "Error al cargar los pedidos")
	}
	vocab := orderstatus.Customer
	history := orderHistory{Orders: make([]orderCard, 0, len(orders)), Summary: summarize(orders)}
	for _, o := range orders {
		if !vocab.Known(o.Status) {
			zap.L().Warn("order with unknown status", zap.Int64("order_id", o.ID), zap.String("status", o.Status))
		}
		consistent := totalsConsistent(o)
		if !consistent {
			zap.L().Warn("order total does not match its items", zap.Int64("order_id", o.ID), zap.Float64("total", o.Total))
		}
		history.Orders = append(history.Orders, orderCard{
			Order:            o,
			StatusView:       vocab.Lookup(o.Status),
			TotalText:        pricing.FormatCOP(o.Total),
			Cancellable:      vocab.Cancellable(o.Status),
			TotalsConsistent: consistent,
		})
	}
	return ok(c, history)
}

// cancelOrder forwards the cancellation; the upstream decides whether the
// order can still be cancelled.
func cancelOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Pedido no valido", nil)
	}
	if err := webserver.GetAppContext(c).Gateway().CancelOrder(userContext(c), id); err != nil {
		if gateway.IsNotFound(err) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Pedido no encontrado", nil)
		}
		return failErr(c, err, "Error al cancelar el pedido")
	}
	actor := ""
	if u, found := webserver.GetSession(c).User(); found {
		actor = u.Email
	}
	publish(c, domain.TopicOrderCancelled, domain.AuditEvent{
		Actor:    actor,
		RemoteIP: c.RealIP(),
		Detail:   fmt.Sprintf("order #%d", id),
	})
	return ok(c, map[string]int64{"order_id": id})
}

func exportName(ext string) string {
	return fmt.Sprintf("pedidos-%s.%s", time.Now().Format("20060102"), ext)
}

func exportOrdersCSV(c echo.Context) error {
	orders, err := fetchOrders(c)
	if err != nil {
		return failErr(c, err, "Error al cargar los pedidos")
	}
	b, err := export.CSV(export.Rows(orders, orderstatus.Customer))
	if err != nil {
		return failErr(c, err, "Error al exportar los pedidos")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportName("csv")))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", b)
}

func exportOrdersXLSX(c echo.Context) error {
	orders, err := fetchOrders(c)
	if err != nil {
		return failErr(c, err, "Error al cargar los pedidos")
	}
	var buf bytes.Buffer
	if err := export.XLSX(&buf, export.Rows(orders, orderstatus.Customer)); err != nil {
		return failErr(c, err, "Error al exportar los pedidos")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportName("xlsx")))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func listOrderStatuses(c echo.Context) error {
	name := c.QueryParam("vocabulary")
	if name == "" {
		name = orderstatus.Customer.Name()
	}
	vocab, found := orderstatus.ByName(name)
	if !found {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Vocabulario desconocido", name)
	}
	return ok(c, vocab.All())
}
