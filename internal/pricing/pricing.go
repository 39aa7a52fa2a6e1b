// Package pricing holds the money rules shared by the cart, catalog and
// checkout views: effective unit price, promotion discounts and line totals.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice is final_price when the upstream sent one, else price.
func EffectivePrice(p domain.Product) decimal.Decimal {
	if p.FinalPrice != nil {
		return decimal.NewFromFloat(*p.FinalPrice)
	}
	return decimal.NewFromFloat(p.Price)
}

// LineTotal is quantity times the effective unit price.
func LineTotal(p domain.Product, quantity float64) decimal.Decimal {
	return EffectivePrice(p).Mul(decimal.NewFromFloat(quantity))
}

// ApplyDiscount returns price * (1 - percent/100) rounded to cents.
func ApplyDiscount(price, percent float64) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromFloat(percent)).Div(hundred)
	return decimal.NewFromFloat(price).Mul(factor).Round(2)
}

// Subtotal computes an order line the way the upstream API stores it:
// quantity * price * (1 - discount/100), rounded once to cents.
func Subtotal(quantity, price, discount float64) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromFloat(discount)).Div(hundred)
	return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(quantity)).Mul(factor).Round(2)
}

// BestDiscount returns the highest discount among promotions that are active,
// inside their window at now and target the product or its category.
// Promotions whose dates cannot be parsed are ignored.
func BestDiscount(promotions []domain.Promotion, product domain.Product, now time.Time) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, promo := range promotions {
		if !promo.IsActive || !promo.AppliesTo(product) {
			continue
		}
		start, end, err := promo.Window(now.Location())
		if err != nil || now.Before(start) || now.After(end) {
			continue
		}
		if !found || promo.DiscountPercent > best {
			best, found = promo.DiscountPercent, true
		}
	}
	return best, found
}

// Reprice fills DiscountPercent and FinalPrice from promotions. Products
// without an applicable promotion get FinalPrice equal to Price.
func Reprice(product domain.Product, promotions []domain.Promotion, now time.Time) domain.Product {
	discount, ok := BestDiscount(promotions, product, now)
	if !ok {
		price := product.Price
		product.DiscountPercent = nil
		product.FinalPrice = &price
		return product
	}
	final, _ := ApplyDiscount(product.Price, discount).Float64()
	product.DiscountPercent = &discount
	product.FinalPrice = &final
	return product
}

// Float rounds d to cents and converts it for JSON view models.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
