// Package config loads the site's settings from environment variables,
// applying defaults and validating everything up front so a bad deployment
// fails at startup rather than on the first request.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Content  ContentConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds each request via chi's Timeout middleware.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// Data source kinds accepted by DATA_SOURCE.
const (
	SourceFile      = "file"
	SourceHTTP      = "http"
	SourcePostgres  = "postgres"
	SourceSQLite    = "sqlite"
	SourceShapefile = "shapefile"
)

// DataConfig selects where the lot collection is loaded from.
type DataConfig struct {
	// Source is one of file, http, postgres, sqlite, shapefile.
	Source string `env:"DATA_SOURCE" default:"file"`

	// Path is the file, SQLite database or shapefile to read.
	Path string `env:"DATA_PATH" default:"data/lots.json"`

	// URL is fetched when Source is http.
	URL string `env:"DATA_URL"`

	// LoadTimeout bounds the single startup fetch.
	LoadTimeout time.Duration `env:"DATA_LOAD_TIMEOUT" default:"10s"`

	// Language is the BCP 47 tag used to format numbers in the table.
	Language string `env:"DATA_LANGUAGE" default:"en-US"`
}

// DatabaseConfig holds PostgreSQL pool settings, used when Data.Source is postgres.
type DatabaseConfig struct {
	// URL accepts DATABASE_URL or DB_URL.
	URL             string        `env:"DATABASE_URL" envAlt:"DB_URL"`
	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ContentConfig holds optional page content.
type ContentConfig struct {
	// IntroPath is a markdown file shown above the lots table.
	IntroPath string `env:"CONTENT_INTRO_PATH"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs allowed to set X-Real-IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
	EnableCSP      bool     `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`
	// Format is text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
