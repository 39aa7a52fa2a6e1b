package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
)

// ErrAborted is returned when the operator declines a confirmation.
var ErrAborted = errors.New("operation cancelled")

// Confirmer asks the operator a yes/no question.
type Confirmer func(prompt string) bool

// AlwaysConfirm skips prompts, as with --yes.
func AlwaysConfirm(string) bool { return true }

type Kind string

const (
	KindProduct   Kind = "product"
	KindCategory  Kind = "category"
	KindPromotion Kind = "promotion"
	KindOrder     Kind = "order"
)

var prompts = map[Kind]string{
	KindProduct:   "¿Estas seguro de eliminar este producto?",
	KindCategory:  "¿Estas seguro de eliminar esta categoria?",
	KindPromotion: "¿Estas seguro de eliminar esta promocion?",
	KindOrder:     "¿Estás seguro de eliminar este pedido permanentemente?",
}

type Actions struct {
	gw      Gateway
	confirm Confirmer
	logger  *zap.Logger
}

func NewActions(gw Gateway, confirm Confirmer, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{gw: gw, confirm: confirm, logger: logger}
}

// Delete removes a product, category, promotion or order after an explicit
// confirmation. Nothing is sent when the operator declines.
func (a *Actions) Delete(ctx context.Context, kind Kind, id int64) error {
	prompt, ok := prompts[kind]
	if !ok {
		return errors.Errorf("unknown kind %q", kind)
	}
	if !a.confirm(fmt.Sprintf("%s (#%d)", prompt, id)) {
		return ErrAborted
	}
	var err error
	switch kind {
	case KindProduct:
		err = a.gw.DeleteProduct(ctx, id)
	case KindCategory:
		err = a.gw.DeleteCategory(ctx, id)
	case KindPromotion:
		err = a.gw.DeletePromotion(ctx, id)
	case KindOrder:
		err = a.gw.DeleteOrder(ctx, id)
	}
	if err != nil {
		return err
	}
	a.logger.Info("deleted", zap.String("kind", string(kind)), zap.Int64("id", id))
	return nil
}

// CancelOrder soft-cancels an order after confirmation.
func (a *Actions) CancelOrder(ctx context.Context, id int64) error {
	if !a.confirm(fmt.Sprintf("¿Estas seguro de que deseas cancelar el pedido #%d?", id)) {
		return ErrAborted
	}
	return a.gw.CancelOrder(ctx, id)
}

// SetOrderStatus validates the status locally before updating it upstream.
func (a *Actions) SetOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if !domain.IsOrderStatus(status) {
		return nil, domain.NewValidationError("status", "Estado invalido")
	}
	return a.gw.UpdateOrderStatus(ctx, id, status)
}

// ValidatePasswordChange checks a new password and its confirmation.
func ValidatePasswordChange(next, confirm string) error {
	if next != confirm {
		return domain.NewValidationError("confirm_password", "Las contraseñas no coinciden")
	}
	if len([]rune(next)) < 6 {
		return domain.NewValidationError("new_password", "La contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

func (a *Actions) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := ValidatePasswordChange(next, confirm); err != nil {
		return err
	}
	return a.gw.ChangePassword(ctx, current, next)
}

// Upload checks type and size locally, then sends the file.
func (a *Actions) Upload(ctx context.Context, path string) (*gateway.UploadResult, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "upload")
	}
	if err := gateway.CheckUpload(path, st.Size()); err != nil {
		return nil, err
	}
	return a.gw.Upload(ctx, path)
}
