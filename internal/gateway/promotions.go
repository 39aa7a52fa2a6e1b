package gateway

import (
	"context"
	"fmt"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

type PromotionInput struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DiscountPercent float64 `json:"discount_percent"`
	ProductID       *int64  `json:"product_id"`
	CategoryID      *int64  `json:"category_id"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
}

type PromotionUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	ProductID       *int64   `json:"product_id,omitempty"`
	CategoryID      *int64   `json:"category_id,omitempty"`
	StartDate       *string  `json:"start_date,omitempty"`
	EndDate         *string  `json:"end_date,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// ListPromotions returns the promotions currently in effect.
func (c *Client) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	var out []domain.Promotion
	if err := c.get(ctx, "/promotions", nil, &out, "Error al obtener promociones"); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllPromotions includes inactive and expired promotions. Admin only.
func (c *Client) ListAllPromotions(ctx context.Context) ([]domain.Promotion, error) {
	var out []domain.Promotion
	if err := c.get(ctx, "/promotions/all", nil, &out, "Error al obtener promociones"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPromotion(ctx context.Context, id int64) (*domain.Promotion, error) {
	var out domain.Promotion
	if err := c.get(ctx, fmt.Sprintf("/promotions/%d", id), nil, &out, "Promocion no encontrada"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePromotion(ctx context.Context, in PromotionInput) (*domain.Promotion, error) {
	var out domain.Promotion
	if err := c.post(ctx, "/promotions", in, &out, "Error al crear promocion"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePromotion(ctx context.Context, id int64, in PromotionUpdate) (*domain.Promotion, error) {
	var out domain.Promotion
	if err := c.put(ctx, fmt.Sprintf("/promotions/%d", id), in, &out, "Error al actualizar promocion"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePromotion(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/promotions/%d", id), "Error al eliminar promocion")
}
