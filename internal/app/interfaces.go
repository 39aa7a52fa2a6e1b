package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/sergiomvp10/tutti-services/config"
	"github.com/sergiomvp10/tutti-services/internal/gateway"
	"github.com/sergiomvp10/tutti-services/internal/session"
	"github.com/sergiomvp10/tutti-services/internal/settings"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
	Jobs() []JobInfo
	RunJobNow(name string) error
	ProcessStats() ProcessStats
}

// SessionProvider provides the storefront session registry
type SessionProvider interface {
	Sessions() *session.Registry
}

// GatewayProvider provides the upstream API client
type GatewayProvider interface {
	Gateway() *gateway.Client
}

// SettingsProvider provides storefront settings access
type SettingsProvider interface {
	Settings() *settings.Manager
}

// EventBusProvider provides the in-process event bus
type EventBusProvider interface {
	Bus() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	SessionProvider
	GatewayProvider
	SettingsProvider
	EventBusProvider

	MigrateDB(track bool) error
	InitDb() error
}
