package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, "/categories", nil, &out, "Error al obtener categorias"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var out domain.Category
	if err := c.get(ctx, fmt.Sprintf("/categories/%d", id), nil, &out, "Categoria no encontrada"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.post(ctx, "/categories", in, &out, "Error al crear categoria"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryUpdate) (*domain.Category, error) {
	var out domain.Category
	if err := c.put(ctx, fmt.Sprintf("/categories/%d", id), in, &out, "Error al actualizar categoria"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/categories/%d", id), "Error al eliminar categoria")
}

// ProductQuery filters GET /products. Zero values are omitted; a nil
// ActiveOnly leaves the upstream default (active only).
type ProductQuery struct {
	CategoryID int64
	Search     string
	ActiveOnly *bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.CategoryID > 0 {
		v.Set("category_id", cast.ToString(q.CategoryID))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.ActiveOnly != nil {
		v.Set("active_only", cast.ToString(*q.ActiveOnly))
	}
	return v
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	CategoryID  *int64  `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	ImageURL2   string  `json:"image_url_2"`
	Stock       float64 `json:"stock"`
	MinOrder    float64 `json:"min_order"`
}

type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	ImageURL2   *string  `json:"image_url_2,omitempty"`
	Stock       *float64 `json:"stock,omitempty"`
	MinOrder    *float64 `json:"min_order,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.get(ctx, "/products", q.values(), &out, "Error al obtener productos"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &out, "Error al obtener producto"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.post(ctx, "/products", in, &out, "Error al crear producto"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductUpdate) (*domain.Product, error) {
	var out domain.Product
	if err := c.put(ctx, fmt.Sprintf("/products/%d", id), in, &out, "Error al actualizar producto"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/products/%d", id), "Error al eliminar producto")
}
