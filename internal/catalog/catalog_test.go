package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomvp10/tutti-services/internal/cart"
	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
)

type fakeSource struct {
	products   []domain.Product
	categories []domain.Category
	promotions []domain.Promotion
	promoErr   error
	queries    []gateway.ProductQuery
}

func (f *fakeSource) ListProducts(_ context.Context, q gateway.ProductQuery) ([]domain.Product, error) {
	f.queries = append(f.queries, q)
	return f.products, nil
}

func (f *fakeSource) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeSource) ListPromotions(context.Context) ([]domain.Promotion, error) {
	return f.promotions, f.promoErr
}

func (f *fakeSource) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Detail: "Producto no encontrado"}
}

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func newFixture() *fakeSource {
	return &fakeSource{
		products: []domain.Product{
			{ID: 1, Name: "Tomate chonto", Price: 1000, FinalPrice: fp(800), DiscountPercent: fp(20), MinOrder: 5, IsActive: true, CategoryID: ip(2)},
			{ID: 2, Name: "Mango", Price: 4500, FinalPrice: fp(4500), MinOrder: 1, IsActive: true},
			{ID: 3, Name: "Pitahaya", Price: 2000, MinOrder: 2, IsActive: true},
			{ID: 4, Name: "Lulo", Price: 3000, MinOrder: 1, IsActive: false},
		},
		categories: []domain.Category{{ID: 2, Name: "Verduras"}},
		promotions: []domain.Promotion{
			{Name: "Semana del tomate", DiscountPercent: 20, CategoryID: ip(2), StartDate: "2024-03-01", EndDate: "2024-03-31", IsActive: true},
			{Name: "Pitahaya feliz", DiscountPercent: 10, ProductID: ip(3), StartDate: "2024-03-01", EndDate: "2024-03-31", IsActive: true},
		},
	}
}

func newService(src Source) *Service {
	s := NewService(src)
	s.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestBrowse(t *testing.T) {
	src := newFixture()
	svc := newService(src)

	page, err := svc.Browse(context.Background(), Filter{Search: "  toma ", CategoryID: 2})
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	q := src.queries[0]
	assert.Equal(t, "toma", q.Search)
	assert.Equal(t, int64(2), q.CategoryID)
	require.NotNil(t, q.ActiveOnly)
	assert.True(t, *q.ActiveOnly)
	assert.Equal(t, "toma", page.Filter.Search)
	assert.Len(t, page.Categories, 1)

	require.Len(t, page.Products, 4)

	tomato := page.Products[0]
	assert.Equal(t, 800.0, tomato.DisplayPrice)
	require.NotNil(t, tomato.OriginalPrice)
	assert.Equal(t, 1000.0, *tomato.OriginalPrice)
	assert.Equal(t, "Semana del tomate", tomato.Promotion)
	assert.Equal(t, 5.0, tomato.QuickAddQuantity)

	mango := page.Products[1]
	assert.Equal(t, 4500.0, mango.DisplayPrice)
	assert.Nil(t, mango.OriginalPrice)
	assert.Empty(t, mango.OriginalPriceText)

	pitahaya := page.Products[2]
	assert.Equal(t, 1800.0, pitahaya.DisplayPrice, "repriced from the active promotion")
	assert.Equal(t, "Pitahaya feliz", pitahaya.Promotion)
}

func TestBrowseRefetchesOnEveryFilterChange(t *testing.T) {
	src := newFixture()
	svc := newService(src)
	ctx := context.Background()

	_, err := svc.Browse(ctx, Filter{})
	require.NoError(t, err)
	_, err = svc.Browse(ctx, Filter{CategoryID: 2})
	require.NoError(t, err)
	_, err = svc.Browse(ctx, Filter{CategoryID: -1, Search: "mango"})
	require.NoError(t, err)

	require.Len(t, src.queries, 3)
	assert.Equal(t, int64(0), src.queries[0].CategoryID)
	assert.Equal(t, int64(2), src.queries[1].CategoryID)
	assert.Equal(t, int64(0), src.queries[2].CategoryID)
	assert.Equal(t, "mango", src.queries[2].Search)
}

func TestBrowseWithoutPromotions(t *testing.T) {
	src := newFixture()
	src.promoErr = errors.New("promotions down")
	page, err := newService(src).Browse(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, page.Products[2].DisplayPrice)
	assert.Empty(t, page.Products[0].Promotion)
}

func TestQuantitySelector(t *testing.T) {
	sel := NewQuantitySelector(domain.Product{MinOrder: 5})
	assert.Equal(t, 5.0, sel.Value())

	assert.Equal(t, 5.0, sel.Decrement())
	assert.Equal(t, 6.0, sel.Increment())
	assert.Equal(t, 7.0, sel.Increment())
	assert.Equal(t, 6.0, sel.Decrement())

	assert.Equal(t, 5.0, sel.Set(2), "typed values are clamped")
	assert.Equal(t, 120.0, sel.Set(120))
	assert.Equal(t, 5.0, sel.Min())
}

func TestDetail(t *testing.T) {
	svc := newService(newFixture())
	ctx := context.Background()

	t.Run("defaults to min order", func(t *testing.T) {
		d, err := svc.Detail(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 5.0, d.Quantity)
		assert.Equal(t, 4000.0, d.LineTotal)
	})

	t.Run("clamps requested quantity", func(t *testing.T) {
		d, err := svc.Detail(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 5.0, d.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.Detail(ctx, 99, 0)
		assert.True(t, gateway.IsNotFound(err))
	})
}

func TestAddToCart(t *testing.T) {
	svc := newService(newFixture())
	ctx := context.Background()

	t.Run("quick add uses min order", func(t *testing.T) {
		store := cart.New()
		_, err := svc.AddToCart(ctx, store, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 5.0, store.ItemCount())
	})

	t.Run("below min order rejected", func(t *testing.T) {
		store := cart.New()
		_, err := svc.AddToCart(ctx, store, 1, 3)
		_, ok := domain.AsValidation(err)
		assert.True(t, ok)
		assert.True(t, store.IsEmpty())
	})

	t.Run("inactive product rejected", func(t *testing.T) {
		store := cart.New()
		_, err := svc.AddToCart(ctx, store, 4, 1)
		_, ok := domain.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("repeated adds merge", func(t *testing.T) {
		store := cart.New()
		_, err := svc.AddToCart(ctx, store, 2, 2)
		require.NoError(t, err)
		_, err = svc.AddToCart(ctx, store, 2, 3)
		require.NoError(t, err)
		require.Equal(t, 1, store.Len())
		assert.Equal(t, 5.0, store.Items()[0].Quantity)
	})
}

func TestQuickAdd(t *testing.T) {
	store := cart.New()
	require.NoError(t, QuickAdd(store, domain.Product{ID: 8, Price: 100, MinOrder: 2.5}))
	require.NoError(t, QuickAdd(store, domain.Product{ID: 8, Price: 100, MinOrder: 2.5}))
	assert.Equal(t, 5.0, store.ItemCount())
}

func TestPromotionPriceAgreesAcrossViews(t *testing.T) {
	src := newFixture()
	svc := newService(src)
	ctx := context.Background()

	page, err := svc.Browse(ctx, Filter{})
	require.NoError(t, err)
	grid := page.Products[2]
	require.Equal(t, int64(3), grid.ID)
	assert.Equal(t, 1800.0, grid.DisplayPrice)

	d, err := svc.Detail(ctx, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, grid.DisplayPrice, d.DisplayPrice)
	require.NotNil(t, d.OriginalPrice)
	assert.Equal(t, 2000.0, *d.OriginalPrice)
	assert.Equal(t, "Pitahaya feliz", d.Promotion)
	assert.Equal(t, 3600.0, d.LineTotal)

	store := cart.New()
	_, err = svc.AddToCart(ctx, store, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, d.LineTotal, store.Total().InexactFloat64())
}

func TestDetailWithoutPromotions(t *testing.T) {
	src := newFixture()
	src.promoErr = errors.New("promotions down")
	d, err := newService(src).Detail(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, d.DisplayPrice)
	assert.Nil(t, d.OriginalPrice)
}
