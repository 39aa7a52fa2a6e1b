// Package admin implements the back-office operations driven by the CLI.
package admin

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
)

// Gateway is the upstream surface used by the back office.
type Gateway interface {
	ListProducts(ctx context.Context, q gateway.ProductQuery) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListAllPromotions(ctx context.Context) ([]domain.Promotion, error)
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	ListUsers(ctx context.Context, role string) ([]domain.User, error)

	DeleteProduct(ctx context.Context, id int64) error
	DeleteCategory(ctx context.Context, id int64) error
	DeletePromotion(ctx context.Context, id int64) error
	CancelOrder(ctx context.Context, id int64) error
	DeleteOrder(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	ChangePassword(ctx context.Context, current, next string) error
	Upload(ctx context.Context, path string) (*gateway.UploadResult, error)
}

// Dashboard is everything the back office shows at once.
type Dashboard struct {
	Products   []domain.Product
	Categories []domain.Category
	Promotions []domain.Promotion
	Orders     []domain.Order
	Users      []domain.User
}

// Buyers counts users with the buyer role.
func (d *Dashboard) Buyers() int {
	n := 0
	for _, u := range d.Users {
		if u.Role == domain.RoleBuyer {
			n++
		}
	}
	return n
}

// OrdersByStatus counts orders per upstream status.
func (d *Dashboard) OrdersByStatus() map[string]int {
	out := make(map[string]int, len(domain.OrderStatuses))
	for _, o := range d.Orders {
		out[o.Status]++
	}
	return out
}

// LoadDashboard fetches the five collections concurrently. It returns only
// after all of them finished, or with the first error.
func LoadDashboard(ctx context.Context, gw Gateway) (*Dashboard, error) {
	d := &Dashboard{}
	inactive := false
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Products, err = gw.ListProducts(gctx, gateway.ProductQuery{ActiveOnly: &inactive})
		return errors.Wrap(err, "products")
	})
	g.Go(func() (err error) {
		d.Categories, err = gw.ListCategories(gctx)
		return errors.Wrap(err, "categories")
	})
	g.Go(func() (err error) {
		d.Promotions, err = gw.ListAllPromotions(gctx)
		return errors.Wrap(err, "promotions")
	})
	g.Go(func() (err error) {
		d.Orders, err = gw.ListOrders(gctx, "")
		return errors.Wrap(err, "orders")
	})
	g.Go(func() (err error) {
		d.Users, err = gw.ListUsers(gctx, "")
		return errors.Wrap(err, "users")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
