package app

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/settings"
)

// InitDb drops every table this service owns, recreates them and seeds the
// default landing page. The audit log is lost.
func (a *Application) InitDb() error {
	if err := a.gormDB.Migrator().DropTable(domain.Tables...); err != nil {
		return errors.Wrap(err, "drop tables")
	}
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "migrate tables")
	}
	a.settings = settings.NewManager(a.gormDB)
	a.checkSettings()
	return nil
}

// checkSettings seeds the landing page keys that are not stored yet.
func (a *Application) checkSettings() {
	n, err := a.settings.SeedLanding(context.Background())
	if err != nil {
		zap.L().Error("failed to seed landing settings", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("initialized landing settings", zap.Int("keys", n))
	}
}
