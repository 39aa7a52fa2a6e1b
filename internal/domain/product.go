package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Product is a catalog entry as served by the upstream API.
// FinalPrice is computed upstream from the best active promotion.
type Product struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Unit            string   `json:"unit"`
	CategoryID      *int64   `json:"category_id"`
	CategoryName    string   `json:"category_name"`
	ImageURL        string   `json:"image_url"`
	ImageURL2       string   `json:"image_url_2"`
	Stock           float64  `json:"stock"`
	MinOrder        float64  `json:"min_order"`
	IsActive        bool     `json:"is_active"`
	DiscountPercent *float64 `json:"discount_percent"`
	FinalPrice      *float64 `json:"final_price"`
}

// Discounted reports whether an active promotion lowers the price.
func (p Product) Discounted() bool {
	return p.FinalPrice != nil && *p.FinalPrice < p.Price
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Promotion targets either one product or one category, never both.
type Promotion struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DiscountPercent float64 `json:"discount_percent"`
	ProductID       *int64  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	CategoryID      *int64  `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	IsActive        bool    `json:"is_active"`
}

// Window parses the validity window. Dates come in whatever format the
// upstream serializer chose, so they go through dateparse.
func (p Promotion) Window(loc *time.Location) (start, end time.Time, err error) {
	start, err = dateparse.ParseIn(strings.TrimSpace(p.StartDate), loc)
	if err != nil {
		return
	}
	raw := strings.TrimSpace(p.EndDate)
	end, err = dateparse.ParseIn(raw, loc)
	if err == nil && len(raw) == len("2006-01-02") {
		// a bare end date covers the whole day
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return
}

// AppliesTo reports whether the promotion targets the product directly or
// through its category.
func (p Promotion) AppliesTo(product Product) bool {
	if p.ProductID != nil {
		return *p.ProductID == product.ID
	}
	if p.CategoryID != nil && product.CategoryID != nil {
		return *p.CategoryID == *product.CategoryID
	}
	return false
}
