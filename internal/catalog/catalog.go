// Package catalog builds the browsable product views: the filtered product
// grid, the product detail dialog and the quick-add action.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sergiomvp10/tutti-services/internal/cart"
	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/pricing"
)

// Source is the part of the upstream API the catalog reads.
type Source interface {
	ListProducts(ctx context.Context, q gateway.ProductQuery) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// Filter narrows the product grid. CategoryID 0 means every category.
type Filter struct {
	Search     string `json:"search" query:"search"`
	CategoryID int64  `json:"category_id" query:"category_id"`
}

func (f Filter) normalized() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if f.CategoryID < 0 {
		f.CategoryID = 0
	}
	return f
}

// Card is a product as shown in the grid. OriginalPrice is set only when a
// promotion lowers the price and is rendered struck through.
type Card struct {
	domain.Product
	DisplayPrice      float64  `json:"display_price"`
	DisplayPriceText  string   `json:"display_price_text"`
	OriginalPrice     *float64 `json:"original_price,omitempty"`
	OriginalPriceText string   `json:"original_price_text,omitempty"`
	Promotion         string   `json:"promotion,omitempty"`
	QuickAddQuantity  float64  `json:"quick_add_quantity"`
}

type Page struct {
	Filter     Filter            `json:"filter"`
	Products   []Card            `json:"products"`
	Categories []domain.Category `json:"categories"`
}

type Service struct {
	src Source
	now func() time.Time
}

func NewService(src Source) *Service {
	return &Service{src: src, now: time.Now}
}

// Browse fetches products matching the filter together with the category
// list and the active promotions. Every call goes to the upstream API.
func (s *Service) Browse(ctx context.Context, f Filter) (*Page, error) {
	f = f.normalized()
	active := true

	var (
		products   []domain.Product
		categories []domain.Category
		promotions []domain.Promotion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.src.ListProducts(gctx, gateway.ProductQuery{Search: f.Search, CategoryID: f.CategoryID, ActiveOnly: &active})
		return
	})
	g.Go(func() (err error) {
		categories, err = s.src.ListCategories(gctx)
		return
	})
	g.Go(func() error {
		// promotion names are decoration; the grid renders without them
		promotions, _ = s.src.ListPromotions(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	page := &Page{Filter: f, Products: make([]Card, 0, len(products)), Categories: categories}
	if page.Categories == nil {
		page.Categories = []domain.Category{}
	}
	for _, p := range products {
		page.Products = append(page.Products, s.card(priced(p, promotions, now), promotions, now))
	}
	return page, nil
}

// priced fills a missing final_price from the active promotions. Browse,
// Detail and AddToCart all go through it.
func priced(p domain.Product, promotions []domain.Promotion, now time.Time) domain.Product {
	if p.FinalPrice == nil {
		return pricing.Reprice(p, promotions, now)
	}
	return p
}

// product fetches one product and prices it like Browse does. The promotion
// list is only read when the upstream left final_price empty.
func (s *Service) product(ctx context.Context, id int64) (domain.Product, []domain.Promotion, error) {
	p, err := s.src.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	var promotions []domain.Promotion
	if p.FinalPrice == nil {
		promotions, _ = s.src.ListPromotions(ctx)
	}
	return priced(*p, promotions, s.now()), promotions, nil
}

func (s *Service) card(p domain.Product, promotions []domain.Promotion, now time.Time) Card {
	display := pricing.Float(pricing.EffectivePrice(p))
	c := Card{
		Product:          p,
		DisplayPrice:     display,
		DisplayPriceText: pricing.FormatCOP(display),
		QuickAddQuantity: p.MinOrder,
	}
	if p.Discounted() {
		original := p.Price
		c.OriginalPrice = &original
		c.OriginalPriceText = pricing.FormatCOP(original)
		c.Promotion = promotionName(promotions, p, now)
	}
	return c
}

// promotionName names the promotion that produced the product's discount.
func promotionName(promotions []domain.Promotion, p domain.Product, now time.Time) string {
	best, ok := pricing.BestDiscount(promotions, p, now)
	if !ok || p.DiscountPercent == nil || best != *p.DiscountPercent {
		return ""
	}
	for _, promo := range promotions {
		if promo.IsActive && promo.AppliesTo(p) && promo.DiscountPercent == best {
			return promo.Name
		}
	}
	return ""
}

// Dialog is the product detail view with its quantity selector.
type Dialog struct {
	Card
	Quantity      float64 `json:"quantity"`
	LineTotal     float64 `json:"line_total"`
	LineTotalText string  `json:"line_total_text"`
}

// Detail opens the detail dialog of a product with the quantity preset to
// its minimum order. A quantity > 0 is clamped to the minimum instead.
func (s *Service) Detail(ctx context.Context, id int64, quantity float64) (*Dialog, error) {
	p, promotions, err := s.product(ctx, id)
	if err != nil {
		return nil, err
	}
	sel := NewQuantitySelector(p)
	if quantity > 0 {
		sel.Set(quantity)
	}
	total := pricing.Float(pricing.LineTotal(p, sel.Value()))
	return &Dialog{
		Card:          s.card(p, promotions, s.now()),
		Quantity:      sel.Value(),
		LineTotal:     total,
		LineTotalText: pricing.FormatCOP(total),
	}, nil
}

// AddToCart fetches the product and adds quantity units of it. A zero
// quantity adds the product's minimum order.
func (s *Service) AddToCart(ctx context.Context, store *cart.Store, productID int64, quantity float64) (*domain.Product, error) {
	p, _, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.NewValidationError("product_id", "Producto no disponible")
	}
	if quantity == 0 {
		return &p, QuickAdd(store, p)
	}
	return &p, errors.WithStack(store.Add(p, quantity))
}

// QuickAdd adds exactly the product's minimum order to the cart.
func QuickAdd(store *cart.Store, p domain.Product) error {
	qty := p.MinOrder
	if qty <= 0 {
		qty = 1
	}
	return store.Add(p, qty)
}
