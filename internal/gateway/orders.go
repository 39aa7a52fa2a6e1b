package gateway

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/araddon/dateparse"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

type OrderRequest struct {
	Items []domain.OrderLine `json:"items"`
	Notes string             `json:"notes"`
}

type GuestOrderRequest struct {
	GuestName     string               `json:"guest_name"`
	GuestPhone    string               `json:"guest_phone"`
	GuestAddress  string               `json:"guest_address"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Items         []domain.OrderLine   `json:"items"`
	Notes         string               `json:"notes"`
}

type AdminOrderRequest struct {
	UserID int64              `json:"user_id"`
	Items  []domain.OrderLine `json:"items"`
	Notes  string             `json:"notes"`
}

// orderWire is the upstream order shape, with user and guest identity as
// parallel nullable columns.
type orderWire struct {
	ID            int64              `json:"id"`
	UserID        *int64             `json:"user_id"`
	UserName      string             `json:"user_name"`
	UserPhone     *string            `json:"user_phone"`
	GuestName     *string            `json:"guest_name"`
	GuestPhone    *string            `json:"guest_phone"`
	GuestAddress  *string            `json:"guest_address"`
	PaymentMethod *string            `json:"payment_method"`
	Status        string             `json:"status"`
	Total         float64            `json:"total"`
	Notes         *string            `json:"notes"`
	Items         []domain.OrderItem `json:"items"`
	CreatedAt     string             `json:"created_at"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (w orderWire) toDomain() domain.Order {
	o := domain.Order{
		ID:     w.ID,
		Items:  w.Items,
		Total:  w.Total,
		Status: w.Status,
		Notes:  str(w.Notes),
	}
	if w.UserID != nil {
		o.Customer = domain.UserCustomer{UserID: *w.UserID, Name: w.UserName, Phone: str(w.UserPhone)}
	} else {
		o.Customer = domain.GuestCustomer{
			Name:          str(w.GuestName),
			Phone:         str(w.GuestPhone),
			Address:       str(w.GuestAddress),
			PaymentMethod: domain.PaymentMethod(str(w.PaymentMethod)),
		}
	}
	if w.CreatedAt != "" {
		if t, err := dateparse.ParseIn(w.CreatedAt, time.Local); err == nil {
			o.CreatedAt = t
		}
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return o
}

func toOrders(wires []orderWire) []domain.Order {
	out := make([]domain.Order, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toDomain())
	}
	return out
}

// ListOrders returns the caller's orders, or every order for an admin token.
// An empty status returns all statuses.
func (c *Client) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status_filter": {status}}
	}
	var wires []orderWire
	if err := c.get(ctx, "/orders", query, &wires, "Error al obtener pedidos"); err != nil {
		return nil, err
	}
	return toOrders(wires), nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var w orderWire
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &w, "Pedido no encontrado"); err != nil {
		return nil, err
	}
	o := w.toDomain()
	return &o, nil
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	return c.createOrder(ctx, "/orders", req)
}

func (c *Client) CreateGuestOrder(ctx context.Context, req GuestOrderRequest) (*domain.Order, error) {
	return c.createOrder(ctx, "/orders/guest", req)
}

func (c *Client) CreateAdminOrder(ctx context.Context, req AdminOrderRequest) (*domain.Order, error) {
	return c.createOrder(ctx, "/orders/admin", req)
}

func (c *Client) createOrder(ctx context.Context, path string, payload interface{}) (*domain.Order, error) {
	var w orderWire
	if err := c.post(ctx, path, payload, &w, "Error al crear pedido"); err != nil {
		return nil, err
	}
	o := w.toDomain()
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	var w orderWire
	payload := map[string]string{"status": status}
	if err := c.put(ctx, fmt.Sprintf("/orders/%d/status", id), payload, &w, "Error al actualizar estado del pedido"); err != nil {
		return nil, err
	}
	o := w.toDomain()
	return &o, nil
}

// CancelOrder soft-cancels an order.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/orders/%d", id), "Error al cancelar pedido")
}

// DeleteOrder removes an order permanently. Admin only.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/orders/%d/permanent", id), "Error al eliminar pedido")
}
