package domain

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionAppliesTo(t *testing.T) {
	productID, categoryID, otherID := int64(1), int64(9), int64(2)
	product := Product{ID: productID, CategoryID: &categoryID}

	assert.True(t, Promotion{ProductID: &productID}.AppliesTo(product))
	assert.False(t, Promotion{ProductID: &otherID}.AppliesTo(product))
	assert.True(t, Promotion{CategoryID: &categoryID}.AppliesTo(product))
	assert.False(t, Promotion{CategoryID: &otherID}.AppliesTo(product))
	assert.False(t, Promotion{CategoryID: &categoryID}.AppliesTo(Product{ID: productID}))
	assert.False(t, Promotion{}.AppliesTo(product))
}

func TestPromotionWindow(t *testing.T) {
	t.Run("bare end date covers the day", func(t *testing.T) {
		promo := Promotion{StartDate: "2024-03-01", EndDate: "2024-03-31"}
		start, end, err := promo.Window(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
		assert.True(t, end.After(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
		assert.True(t, end.Before(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("timestamps kept as is", func(t *testing.T) {
		promo := Promotion{StartDate: "2024-03-01T08:00:00", EndDate: "2024-03-02T18:30:00"}
		_, end, err := promo.Window(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC), end)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, _, err := Promotion{StartDate: "soon", EndDate: "later"}.Window(time.UTC)
		assert.Error(t, err)
	})
}

func TestPaymentMethod(t *testing.T) {
	for _, m := range PaymentMethods() {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, PaymentMethod("bitcoin").Valid())
	assert.False(t, PaymentMethod("").Valid())
	assert.Equal(t, "Transferencia Bancaria", PaymentTransfer.Label())
	assert.Equal(t, "bitcoin", PaymentMethod("bitcoin").Label())
}

func TestOrderCustomer(t *testing.T) {
	guest := Order{Customer: GuestCustomer{Name: "Ana", Phone: "300"}}
	member := Order{Customer: UserCustomer{UserID: 4, Name: "Tienda Sol"}}

	assert.True(t, guest.IsGuest())
	assert.False(t, member.IsGuest())
	assert.Equal(t, "Ana", guest.Customer.DisplayName())
	assert.Equal(t, "Tienda Sol", member.Customer.DisplayName())
}

func TestIsOrderStatus(t *testing.T) {
	assert.True(t, IsOrderStatus(StatusReady))
	assert.False(t, IsOrderStatus("pendiente"))
}

func TestAsValidation(t *testing.T) {
	err := errors.Wrap(NewValidationError("name", "Nombre requerido"), "checkout")
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "Nombre requerido", ve.Error())

	_, ok = AsValidation(errors.New("boom"))
	assert.False(t, ok)
}
