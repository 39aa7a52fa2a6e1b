// Package cart implements the shopping cart of one storefront session.
package cart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/pricing"
)

// Item is one cart entry. A product appears at most once per cart.
type Item struct {
	Product  domain.Product `json:"product"`
	Quantity float64        `json:"quantity"`
}

// LineTotal is quantity times the effective unit price.
func (i Item) LineTotal() decimal.Decimal {
	return pricing.LineTotal(i.Product, i.Quantity)
}

// Store holds the entries of a cart. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func New() *Store {
	return &Store{}
}

// Add puts quantity units of the product in the cart, adding to the existing
// entry when the product is already present.
func (s *Store) Add(product domain.Product, quantity float64) error {
	if quantity <= 0 || quantity < product.MinOrder {
		return domain.NewValidationError("quantity",
			fmt.Sprintf("La cantidad minima para %s es %s", product.Name, pricing.FormatQuantity(product.MinOrder)))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			return nil
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: quantity})
	return nil
}

// Remove deletes the entry of productID and reports whether it existed.
func (s *Store) Remove(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums every line at its effective price, rounded to cents.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total.Round(2)
}

// ItemCount sums quantities, not entries.
func (s *Store) ItemCount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n float64
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Lines converts the cart into order lines.
func (s *Store) Lines() []domain.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]domain.OrderLine, 0, len(s.items))
	for _, it := range s.items {
		lines = append(lines, domain.OrderLine{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	return lines
}
