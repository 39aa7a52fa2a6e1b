// Package checkout turns a session cart into an upstream order.
package checkout

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/cart"
	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/pricing"
)

// User-facing messages.
const (
	MsgEmptyCart     = "El carrito esta vacio"
	MsgMissingFields = "Por favor completa todos los campos requeridos"
	MsgInvalidMethod = "Forma de pago no valida"
	MsgGenericError  = "Error al crear el pedido"
)

// ErrInProgress is returned while another submission of the same cart runs.
var ErrInProgress = errors.New("checkout already in progress")

// Orders is the part of the upstream API used to place orders.
type Orders interface {
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*domain.Order, error)
	CreateGuestOrder(ctx context.Context, req gateway.GuestOrderRequest) (*domain.Order, error)
}

// Publisher receives checkout events.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

// Buyer is either a Member or a Guest.
type Buyer interface {
	buyer()
}

// Member is an authenticated customer; identity is resolved upstream from Token.
type Member struct {
	Token string
	Email string
}

// Guest places an order without an account.
type Guest struct {
	Name          string               `json:"guest_name"`
	Phone         string               `json:"guest_phone"`
	Address       string               `json:"guest_address"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

func (Member) buyer() {}
func (Guest) buyer()  {}

// Validate checks the guest contact and payment fields.
func (g Guest) Validate() error {
	if strings.TrimSpace(g.Name) == "" || strings.TrimSpace(g.Phone) == "" ||
		strings.TrimSpace(g.Address) == "" || g.PaymentMethod == "" {
		return domain.NewValidationError("guest", MsgMissingFields)
	}
	if !g.PaymentMethod.Valid() {
		return domain.NewValidationError("payment_method", MsgInvalidMethod)
	}
	return nil
}

type Links struct {
	Catalog string `json:"catalog"`
	Orders  string `json:"orders,omitempty"`
}

// Confirmation is shown after a successful submission.
type Confirmation struct {
	OrderID   int64   `json:"order_id"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	TotalText string  `json:"total_text"`
	Guest     bool    `json:"guest"`
	Links     Links   `json:"links"`
}

type Service struct {
	orders Orders
	bus    Publisher
	logger *zap.Logger
}

func NewService(orders Orders, bus Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, bus: bus, logger: logger}
}

// Guard serializes submissions of one cart.
type Guard interface {
	BeginCheckout() bool
	EndCheckout()
}

// Submit places the cart as an order. Validation happens before any upstream
// call. The cart is cleared only after the upstream accepted the order; on
// failure it is left as it was and the upstream error is returned unchanged.
func (s *Service) Submit(ctx context.Context, guard Guard, store *cart.Store, buyer Buyer, notes, remoteIP string) (*Confirmation, error) {
	if !guard.BeginCheckout() {
		return nil, ErrInProgress
	}
	defer guard.EndCheckout()

	if store.IsEmpty() {
		return nil, domain.NewValidationError("items", MsgEmptyCart)
	}
	lines := store.Lines()
	notes = strings.TrimSpace(notes)

	var (
		order *domain.Order
		err   error
		links = Links{Catalog: "/catalog"}
		actor string
	)
	switch b := buyer.(type) {
	case Member:
		order, err = s.orders.CreateOrder(gateway.WithToken(ctx, b.Token), gateway.OrderRequest{Items: lines, Notes: notes})
		links.Orders = "/orders"
		actor = b.Email
	case Guest:
		if verr := b.Validate(); verr != nil {
			return nil, verr
		}
		order, err = s.orders.CreateGuestOrder(ctx, gateway.GuestOrderRequest{
			GuestName:     strings.TrimSpace(b.Name),
			GuestPhone:    strings.TrimSpace(b.Phone),
			GuestAddress:  strings.TrimSpace(b.Address),
			PaymentMethod: b.PaymentMethod,
			Items:         lines,
			Notes:         notes,
		})
		actor = "guest"
	default:
		return nil, errors.Errorf("unsupported buyer %T", buyer)
	}
	if err != nil {
		s.logger.Warn("checkout rejected", zap.String("actor", actor), zap.Int("lines", len(lines)), zap.Error(err))
		return nil, err
	}

	store.Clear()

	_, guest := buyer.(Guest)
	s.logger.Info("order submitted", zap.Int64("order_id", order.ID), zap.String("actor", actor), zap.Float64("total", order.Total))
	if s.bus != nil {
		s.bus.Publish(domain.TopicOrderSubmitted, domain.OrderSubmitted{
			OrderID: order.ID, Total: order.Total, Guest: guest, Customer: actor, RemoteIP: remoteIP,
		})
	}
	return &Confirmation{
		OrderID:   order.ID,
		Status:    order.Status,
		Total:     order.Total,
		TotalText: pricing.FormatCOP(order.Total),
		Guest:     guest,
		Links:     links,
	}, nil
}
