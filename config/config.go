package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system config
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig storefront http server config
type WebConfig struct {
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	Secret        string `yaml:"secret" json:"-"`
	SessionMaxAge int    `yaml:"session_max_age" json:"session_max_age"` // seconds
	SecureCookie  bool   `yaml:"secure_cookie" json:"secure_cookie"`
	// RequestsPerSecond limits requests per client IP, 0 disables the limiter.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
}

// UpstreamConfig points to the REST API that owns catalog, orders and users.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	Timeout int    `yaml:"timeout" json:"timeout"` // seconds, 0 means no client timeout
}

// DBConfig database config
type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // sqlite or postgres
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"-"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// LogConfig logger config
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream"`
	Database DBConfig       `yaml:"database" json:"database"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.Timeout) * time.Second
}

func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.Web.SessionMaxAge) * time.Second
}

func (c *AppConfig) initDirs() error {
	for _, dir := range []string{c.GetDataDir(), c.GetLogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "TuttiStorefront",
		Location: "America/Bogota",
		Workdir:  "/var/tutti",
		Debug:    false,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          8080,
		Secret:        "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
		SessionMaxAge: 86400,
	},
	Upstream: UpstreamConfig{
		BaseURL: "http://localhost:8000",
		Timeout: 0,
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "tutti.db",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  20,
		IdleConn: 5,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/tutti/logs/tutti.log",
	},
}

// LoadConfig reads the yaml file when it exists, then applies TUTTI_*
// environment overrides. An empty path only uses defaults and environment.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", cfile)
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	if err := cfg.initDirs(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *AppConfig, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := cast.ToIntE(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			if b, err := cast.ToBoolE(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}

	str("TUTTI_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	str("TUTTI_SYSTEM_LOCATION", &cfg.System.Location)
	flag("TUTTI_SYSTEM_DEBUG", &cfg.System.Debug)

	str("TUTTI_WEB_HOST", &cfg.Web.Host)
	num("TUTTI_WEB_PORT", &cfg.Web.Port)
	str("TUTTI_WEB_SECRET", &cfg.Web.Secret)
	num("TUTTI_WEB_SESSION_MAX_AGE", &cfg.Web.SessionMaxAge)
	flag("TUTTI_WEB_SECURE_COOKIE", &cfg.Web.SecureCookie)
	if v, ok := lookup("TUTTI_WEB_REQUESTS_PER_SECOND"); ok {
		if f, err := cast.ToFloat64E(strings.TrimSpace(v)); err == nil {
			cfg.Web.RequestsPerSecond = f
		}
	}

	str("TUTTI_API_URL", &cfg.Upstream.BaseURL)
	num("TUTTI_API_TIMEOUT", &cfg.Upstream.Timeout)

	str("TUTTI_DB_TYPE", &cfg.Database.Type)
	str("TUTTI_DB_HOST", &cfg.Database.Host)
	num("TUTTI_DB_PORT", &cfg.Database.Port)
	str("TUTTI_DB_NAME", &cfg.Database.Name)
	str("TUTTI_DB_USER", &cfg.Database.User)
	str("TUTTI_DB_PWD", &cfg.Database.Passwd)
	flag("TUTTI_DB_DEBUG", &cfg.Database.Debug)

	str("TUTTI_LOGGER_MODE", &cfg.Logger.Mode)
	flag("TUTTI_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	str("TUTTI_LOGGER_FILENAME", &cfg.Logger.Filename)
}
