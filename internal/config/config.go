// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// one exists), loads them into structured Go types on top of documented
// defaults, and validates the result so the service fails fast on bad
// configuration.
//
// Environment keys use the TVSHOWS_ prefix and a double underscore for
// nesting:
//
//	TVSHOWS_DATABASE__HOST      -> database.host
//	TVSHOWS_PAGINATION__PAGE_SIZE -> pagination.page_size
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment before
	// anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is stripped from every environment key before mapping.
	EnvPrefix = "TVSHOWS_"

	// ServiceName tags logs, traces and APM dashboards.
	ServiceName = "tv-shows"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. When it is not
// provided, defaults are injected after loading.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Pagination    PaginationConfig     `koanf:"pagination" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds; zero means no timeout.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is the steady request rate allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"required,min=1,max=65535"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required"`
	SSLMode  string `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`

	// Timezone is applied to every pooled session. Either a UTC offset
	// such as "+08:00" or a zone name such as "Asia/Singapore".
	Timezone string `koanf:"timezone" validate:"required"`

	// MaxConns bounds the number of connections leased at the same time.
	MaxConns int32 `koanf:"max_conns" validate:"min=1"`

	PingTimeout     time.Duration `koanf:"ping_timeout" validate:"min=1ms"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"min=0"`
}

// PaginationConfig controls the list view.
type PaginationConfig struct {
	PageSize int `koanf:"page_size" validate:"min=1,max=500"`
}

// defaults are loaded before the environment so unset keys keep these values.
var defaults = map[string]any{
	"primary.env":                 "development",
	"server.port":                 "3000",
	"server.read_timeout":         30,
	"server.write_timeout":        30,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"server.rate_limit":           0,
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.name":               "leisure",
	"database.ssl_mode":           "disable",
	"database.timezone":           "+08:00",
	"database.max_conns":          4,
	"database.ping_timeout":       10 * time.Second,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,
	"pagination.page_size":        20,
}

// envKey maps TVSHOWS_DATABASE__MAX_CONNS to database.max_conns.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from defaults and environment variables,
// validates it and fills in observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
