// Package settings stores storefront configuration in sys_config, one row
// per key grouped by category.
package settings

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

// Landing is the public landing page configuration.
type Landing struct {
	MainMessage     string `json:"main_message" mapstructure:"main_message" validate:"required,max=300"`
	Subtitle        string `json:"subtitle" mapstructure:"subtitle" validate:"max=300"`
	WhatsAppLink    string `json:"whatsapp_link" mapstructure:"whatsapp_link" validate:"omitempty,url"`
	BackgroundImage string `json:"background_image" mapstructure:"background_image" validate:"max=1024"`
}

// DefaultLanding is used until an admin saves a configuration.
var DefaultLanding = Landing{
	MainMessage:     "Los productos más frescos y al mejor precio de Cartagena",
	Subtitle:        "Distribuidora de Frutas y Verduras para mayoristas",
	WhatsAppLink:    "https://wa.link/ykjebj",
	BackgroundImage: "",
}

func (l Landing) toMap() map[string]string {
	m := map[string]interface{}{}
	_ = mapstructure.Decode(l, &m)
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = cast.ToString(v)
	}
	return out
}

// Manager reads and writes settings with a read-through cache.
type Manager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]map[string]string
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, cache: make(map[string]map[string]string)}
}

// Category returns every key of a category.
func (m *Manager) Category(ctx context.Context, category string) (map[string]string, error) {
	m.mu.RLock()
	cached, ok := m.cache[category]
	m.mu.RUnlock()
	if ok {
		return copyMap(cached), nil
	}

	var rows []domain.SysConfig
	if err := m.db.WithContext(ctx).Where("type = ?", category).Order("sort").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "load settings %s", category)
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Name] = r.Value
	}
	m.mu.Lock()
	m.cache[category] = values
	m.mu.Unlock()
	return copyMap(values), nil
}

// Save upserts the given keys of a category in one transaction.
func (m *Manager) Save(ctx context.Context, category string, values map[string]string) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sort := 0
		for _, name := range sortedKeys(values) {
			sort++
			var row domain.SysConfig
			err := tx.Where("type = ? AND name = ?", category, name).First(&row).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				row = domain.SysConfig{Type: category, Name: name, Value: values[name], Sort: sort}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&row).Update("value", values[name]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "save settings %s", category)
	}
	m.invalidate(category)
	return nil
}

// EnsureDefaults inserts the keys of a category that do not exist yet.
func (m *Manager) EnsureDefaults(ctx context.Context, category string, defaults map[string]string) (int, error) {
	current, err := m.Category(ctx, category)
	if err != nil {
		return 0, err
	}
	missing := map[string]string{}
	for k, v := range defaults {
		if _, ok := current[k]; !ok {
			missing[k] = v
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	return len(missing), m.Save(ctx, category, missing)
}

// Landing returns the landing configuration, filling unset keys from
// DefaultLanding.
func (m *Manager) Landing(ctx context.Context) (Landing, error) {
	values, err := m.Category(ctx, domain.SettingsLanding)
	if err != nil {
		return DefaultLanding, err
	}
	merged := DefaultLanding.toMap()
	for k, v := range values {
		merged[k] = v
	}
	var l Landing
	if err := mapstructure.Decode(merged, &l); err != nil {
		return DefaultLanding, errors.Wrap(err, "decode landing settings")
	}
	return l, nil
}

func (m *Manager) SaveLanding(ctx context.Context, l Landing) error {
	l.MainMessage = strings.TrimSpace(l.MainMessage)
	l.Subtitle = strings.TrimSpace(l.Subtitle)
	l.WhatsAppLink = strings.TrimSpace(l.WhatsAppLink)
	return m.Save(ctx, domain.SettingsLanding, l.toMap())
}

// SeedLanding stores the default landing keys that are missing.
func (m *Manager) SeedLanding(ctx context.Context) (int, error) {
	return m.EnsureDefaults(ctx, domain.SettingsLanding, DefaultLanding.toMap())
}

func (m *Manager) invalidate(category string) {
	m.mu.Lock()
	delete(m.cache, category)
	m.mu.Unlock()
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
