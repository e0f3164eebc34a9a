// Package config provides centralized configuration management for the HR panel.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// List synchronization modes after a successful create.
const (
	SyncReload = "reload"
	SyncInsert = "insert"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Audit    AuditConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s).
	// It is the only bound on a store call once issued.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Required when STORE_DRIVER=postgres. DB_URL is accepted for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// AutoMigrate applies pending schema migrations on startup (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"true"`
}

// StoreConfig controls the job-postings record store and list behaviour.
type StoreConfig struct {
	// Driver selects the record store: postgres or memory (default: postgres)
	Driver string `env:"STORE_DRIVER" default:"postgres"`

	// SyncMode is how a session's list reflects a successful create:
	// reload (full reload, default) or insert (prepend the returned record).
	SyncMode string `env:"JOBS_SYNC_MODE" default:"reload"`

	// OptionsFile is an optional YAML file overriding the form option catalog.
	OptionsFile string `env:"JOBS_OPTIONS_FILE"`

	// MaxConcurrent bounds store calls in flight across all sessions
	// (default: 10). MaxWait is how long a call waits for a slot.
	MaxConcurrent int           `env:"STORE_MAX_CONCURRENT" default:"10"`
	MaxWait       time.Duration `env:"STORE_MAX_WAIT" default:"5s"`
}

// SessionConfig holds login session settings.
type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" default:"hr_session"`
	TTL        time.Duration `env:"SESSION_TTL" default:"12h"`

	// Secure marks the session cookie Secure (default: false for local use)
	Secure bool `env:"SESSION_COOKIE_SECURE" default:"false"`
}

// RedisConfig holds the optional Redis connection used for sessions and
// cross-session change events. Empty URL keeps both in-process.
type RedisConfig struct {
	URL     string `env:"REDIS_URL"`
	Channel string `env:"REDIS_EVENTS_CHANNEL" default:"hrpanel.jobs.changed"`
}

// AuthConfig holds auth provider settings.
type AuthConfig struct {
	// AllowRegister exposes POST /auth/register (default: false)
	AllowRegister bool `env:"AUTH_ALLOW_REGISTER" default:"false"`

	// BcryptCost is the work factor for new password hashes (default: 12)
	BcryptCost int `env:"AUTH_BCRYPT_COST" default:"12"`

	// SeedEmail and SeedPassword create an account at startup when both are
	// set and the email is not yet registered.
	SeedEmail    string `env:"AUTH_SEED_EMAIL"`
	SeedPassword string `env:"AUTH_SEED_PASSWORD"`
	SeedName     string `env:"AUTH_SEED_NAME" default:"HR Admin"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// LoginLimit is requests per minute per IP for login endpoints (default: 10)
	LoginLimit int `env:"RATE_LIMIT_LOGIN" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// AuditConfig holds job audit trail settings.
type AuditConfig struct {
	// RetentionDays is how long audit entries are kept (default: 365)
	RetentionDays int `env:"AUDIT_RETENTION_DAYS" default:"365"`

	// PurgeSchedule is the cron spec for the purge job (default: daily at 03:00)
	PurgeSchedule string `env:"AUDIT_PURGE_SCHEDULE" default:"0 3 * * *"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// UsesRedis reports whether a Redis URL was configured.
func (c *Config) UsesRedis() bool {
	return c.Redis.URL != ""
}
