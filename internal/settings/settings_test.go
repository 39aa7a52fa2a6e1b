package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func TestLandingDefaults(t *testing.T) {
	m := NewManager(newTestDB(t))
	l, err := m.Landing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultLanding, l)
}

func TestSeedLanding(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	m := NewManager(db)

	n, err := m.SeedLanding(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = m.SeedLanding(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var count int64
	require.NoError(t, db.Model(&domain.SysConfig{}).Where("type = ?", domain.SettingsLanding).Count(&count).Error)
	assert.Equal(t, int64(4), count)
	values, err := m.Category(ctx, domain.SettingsLanding)
	require.NoError(t, err)
	assert.Equal(t, "https://wa.link/ykjebj", values["whatsapp_link"])
}

func TestSaveLanding(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newTestDB(t))
	_, err := m.SeedLanding(ctx)
	require.NoError(t, err)

	// warm the cache so the save has to invalidate it
	_, err = m.Landing(ctx)
	require.NoError(t, err)

	want := Landing{
		MainMessage:     "Temporada de mango",
		Subtitle:        "  Pedidos antes de las 10am  ",
		WhatsAppLink:    "https://wa.me/573001112233",
		BackgroundImage: "/uploads/mango.jpg",
	}
	require.NoError(t, m.SaveLanding(ctx, want))

	got, err := m.Landing(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Temporada de mango", got.MainMessage)
	assert.Equal(t, "Pedidos antes de las 10am", got.Subtitle)
	assert.Equal(t, "https://wa.me/573001112233", got.WhatsAppLink)
	assert.Equal(t, "/uploads/mango.jpg", got.BackgroundImage)

	fresh := NewManager(m.db)
	again, err := fresh.Landing(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestPartialCategoryFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newTestDB(t))
	require.NoError(t, m.Save(ctx, domain.SettingsLanding, map[string]string{"subtitle": "Solo mayoristas"}))

	l, err := m.Landing(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Solo mayoristas", l.Subtitle)
	assert.Equal(t, DefaultLanding.MainMessage, l.MainMessage)
}

func TestCategoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newTestDB(t))
	require.NoError(t, m.Save(ctx, "storefront", map[string]string{"k": "v"}))

	values, err := m.Category(ctx, "storefront")
	require.NoError(t, err)
	values["k"] = "changed"
	again, err := m.Category(ctx, "storefront")
	require.NoError(t, err)
	assert.Equal(t, "v", again["k"])
}
