package domain

import "time"

// Order statuses as defined by the upstream API.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// OrderStatuses lists the upstream statuses in lifecycle order.
var OrderStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// IsOrderStatus reports whether s is one of OrderStatuses.
func IsOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "efectivo"
	PaymentTransfer  PaymentMethod = "transferencia"
	PaymentNequi     PaymentMethod = "nequi"
	PaymentDaviplata PaymentMethod = "daviplata"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:      "Efectivo",
	PaymentTransfer:  "Transferencia Bancaria",
	PaymentNequi:     "Nequi",
	PaymentDaviplata: "Daviplata",
}

// PaymentMethods returns the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentTransfer, PaymentNequi, PaymentDaviplata}
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

func (m PaymentMethod) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

// Customer identifies who placed an order: a registered user or a guest.
type Customer interface {
	DisplayName() string
	ContactPhone() string
	isCustomer()
}

type UserCustomer struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

func (c UserCustomer) DisplayName() string  { return c.Name }
func (c UserCustomer) ContactPhone() string { return c.Phone }
func (UserCustomer) isCustomer()            {}

type GuestCustomer struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

func (c GuestCustomer) DisplayName() string  { return c.Name }
func (c GuestCustomer) ContactPhone() string { return c.Phone }
func (GuestCustomer) isCustomer()            {}

type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Subtotal    float64 `json:"subtotal"`
}

type Order struct {
	ID        int64       `json:"id"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsGuest reports whether the order was placed without an account.
func (o Order) IsGuest() bool {
	_, ok := o.Customer.(GuestCustomer)
	return ok
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}
