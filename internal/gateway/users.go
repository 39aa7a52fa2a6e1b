package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

type UserInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PurchaseVolume string `json:"purchase_volume"`
	Role           string `json:"role"`
}

type UserUpdate struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	City           *string `json:"city,omitempty"`
	PurchaseVolume *string `json:"purchase_volume,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
	Role           *string `json:"role,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context, role string) ([]domain.User, error) {
	var query url.Values
	if role != "" {
		query = url.Values{"role": {role}}
	}
	var out []domain.User
	if err := c.get(ctx, "/users", query, &out, "Error al obtener usuarios"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var out domain.User
	if err := c.get(ctx, fmt.Sprintf("/users/%d", id), nil, &out, "Usuario no encontrado"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleBuyer
	}
	var out domain.User
	if err := c.post(ctx, "/users", in, &out, "Error al crear usuario"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in UserUpdate) (*domain.User, error) {
	var out domain.User
	if err := c.put(ctx, fmt.Sprintf("/users/%d", id), in, &out, "Error al actualizar usuario"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateUser disables the account; the upstream keeps the row.
func (c *Client) DeactivateUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d", id), "Error al desactivar usuario")
}
