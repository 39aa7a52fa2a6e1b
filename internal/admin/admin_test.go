package admin

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
)

type fakeGateway struct {
	mu     sync.Mutex
	calls  []string
	failOn string
	query  gateway.ProductQuery
}

func (f *fakeGateway) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if call == f.failOn {
		return &gateway.APIError{Status: 403, Detail: "Acceso denegado"}
	}
	return nil
}

func (f *fakeGateway) ListProducts(_ context.Context, q gateway.ProductQuery) ([]domain.Product, error) {
	f.mu.Lock()
	f.query = q
	f.mu.Unlock()
	return []domain.Product{{ID: 1}, {ID: 2}}, f.record("products")
}
func (f *fakeGateway) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1}}, f.record("categories")
}
func (f *fakeGateway) ListAllPromotions(context.Context) ([]domain.Promotion, error) {
	return []domain.Promotion{}, f.record("promotions")
}
func (f *fakeGateway) ListOrders(context.Context, string) ([]domain.Order, error) {
	return []domain.Order{{ID: 1, Status: "pending"}, {ID: 2, Status: "pending"}, {ID: 3, Status: "ready"}}, f.record("orders")
}
func (f *fakeGateway) ListUsers(context.Context, string) ([]domain.User, error) {
	return []domain.User{{Role: "admin"}, {Role: "buyer"}, {Role: "buyer"}}, f.record("users")
}
func (f *fakeGateway) DeleteProduct(context.Context, int64) error   { return f.record("delete product") }
func (f *fakeGateway) DeleteCategory(context.Context, int64) error  { return f.record("delete category") }
func (f *fakeGateway) DeletePromotion(context.Context, int64) error { return f.record("delete promotion") }
func (f *fakeGateway) CancelOrder(context.Context, int64) error     { return f.record("cancel order") }
func (f *fakeGateway) DeleteOrder(context.Context, int64) error     { return f.record("delete order") }
func (f *fakeGateway) UpdateOrderStatus(_ context.Context, id int64, status string) (*domain.Order, error) {
	return &domain.Order{ID: id, Status: status}, f.record("status " + status)
}
func (f *fakeGateway) ChangePassword(context.Context, string, string) error {
	return f.record("password")
}
func (f *fakeGateway) Upload(_ context.Context, path string) (*gateway.UploadResult, error) {
	return &gateway.UploadResult{Filename: filepath.Base(path)}, f.record("upload")
}

func TestLoadDashboard(t *testing.T) {
	gw := &fakeGateway{}
	d, err := LoadDashboard(context.Background(), gw)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"products", "categories", "promotions", "orders", "users"}, gw.calls)
	require.NotNil(t, gw.query.ActiveOnly)
	assert.False(t, *gw.query.ActiveOnly, "back office lists inactive products too")
	assert.Len(t, d.Products, 2)
	assert.Equal(t, 2, d.Buyers())
	assert.Equal(t, map[string]int{"pending": 2, "ready": 1}, d.OrdersByStatus())
}

func TestLoadDashboardError(t *testing.T) {
	gw := &fakeGateway{failOn: "users"}
	d, err := LoadDashboard(context.Background(), gw)
	assert.Nil(t, d)
	require.Error(t, err)
	ae, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Acceso denegado", ae.Detail)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	var prompts []string
	decline := func(p string) bool { prompts = append(prompts, p); return false }

	for _, kind := range []Kind{KindProduct, KindCategory, KindPromotion, KindOrder} {
		gw := &fakeGateway{}
		err := NewActions(gw, decline, nil).Delete(context.Background(), kind, 9)
		assert.ErrorIs(t, err, ErrAborted)
		assert.Empty(t, gw.calls, "no request after a declined prompt")
	}
	require.Len(t, prompts, 4)
	assert.Equal(t, "¿Estas seguro de eliminar este producto? (#9)", prompts[0])
}

func TestDeleteConfirmed(t *testing.T) {
	gw := &fakeGateway{}
	a := NewActions(gw, AlwaysConfirm, nil)
	ctx := context.Background()

	require.NoError(t, a.Delete(ctx, KindProduct, 1))
	require.NoError(t, a.Delete(ctx, KindCategory, 2))
	require.NoError(t, a.Delete(ctx, KindPromotion, 3))
	require.NoError(t, a.Delete(ctx, KindOrder, 4))
	require.NoError(t, a.CancelOrder(ctx, 5))
	assert.Equal(t, []string{"delete product", "delete category", "delete promotion", "delete order", "cancel order"}, gw.calls)

	assert.Error(t, a.Delete(ctx, Kind("user"), 1))
}

func TestDeleteUpstreamError(t *testing.T) {
	gw := &fakeGateway{failOn: "delete category"}
	err := NewActions(gw, AlwaysConfirm, nil).Delete(context.Background(), KindCategory, 2)
	assert.EqualError(t, err, "Acceso denegado")
}

func TestSetOrderStatus(t *testing.T) {
	gw := &fakeGateway{}
	a := NewActions(gw, AlwaysConfirm, nil)

	o, err := a.SetOrderStatus(context.Background(), 7, domain.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, o.Status)

	_, err = a.SetOrderStatus(context.Background(), 7, "enviado")
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, []string{"status ready"}, gw.calls)
}

func TestValidatePasswordChange(t *testing.T) {
	assert.EqualError(t, ValidatePasswordChange("secreto1", "secreto2"), "Las contraseñas no coinciden")
	assert.EqualError(t, ValidatePasswordChange("abc", "abc"), "La contraseña debe tener al menos 6 caracteres")
	assert.NoError(t, ValidatePasswordChange("ñandú1", "ñandú1"))
}

func TestChangePassword(t *testing.T) {
	gw := &fakeGateway{}
	a := NewActions(gw, AlwaysConfirm, nil)
	require.Error(t, a.ChangePassword(context.Background(), "old", "short", "short"))
	assert.Empty(t, gw.calls)
	require.NoError(t, a.ChangePassword(context.Background(), "old", "nueva123", "nueva123"))
	assert.Equal(t, []string{"password"}, gw.calls)
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "fresas.webp")
	bad := filepath.Join(dir, "notas.txt")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))

	gw := &fakeGateway{}
	a := NewActions(gw, AlwaysConfirm, nil)

	res, err := a.Upload(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, "fresas.webp", res.Filename)

	_, err = a.Upload(context.Background(), bad)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)

	_, err = a.Upload(context.Background(), filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrAborted))
	assert.Equal(t, []string{"upload"}, gw.calls)
}
