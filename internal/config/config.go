// Package config loads the redirect service configuration from environment
// variables with sensible defaults and validates it before the application
// starts.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path (default: stdout)
//   - TLS_CERT, TLS_KEY: Serve HTTPS when both are set
//
// Web Settings:
//   - APP_BASE_URI: Base path the application is served under (default: "")
//   - DEFAULT_CHARACTER_ENCODING: Charset for requests that name none (default: UTF-8)
//   - VIEWS_ENABLE_JSESSIONID: Embed the session id into redirect URLs (default: false)
//   - SESSION_COOKIE_NAME: Session cookie name (default: JSESSIONID)
//   - REVERSE_MAPPING_CACHE_TTL: Reverse URL mapping cache TTL, 0 disables (default: 5m)
//
// Redis Configuration (redirect audit):
//   - REDIS_ADDRESS: Redis server address, empty disables the audit
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//   - REDIRECT_AUDIT_SIZE: Number of recent redirects kept (default: 100)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/validation"
)

// Config holds all configuration values. String fields mirror the
// environment; use the typed accessors after Validate has succeeded.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path, empty for stdout
	TLSCert  string // TLS certificate file
	TLSKey   string // TLS key file

	// Web settings
	ApplicationURI           string // Base path of the application
	DefaultCharacterEncoding string // Charset used when the request names none
	EnableSessionIDEncoding  bool   // Embed the session id into redirect URLs
	SessionCookieName        string // Session cookie and path parameter name
	ReverseMappingCacheTTL   string // Reverse mapping cache TTL (e.g. "5m")

	// Redis configuration for the redirect audit
	RedisAddress      string // Redis server address (host:port)
	RedisPassword     string // Redis authentication password
	RedisDB           string // Redis database number (0-15)
	RedisPoolSize     string // Redis connection pool size
	RedirectAuditSize string // Number of audited redirects kept
}

// Load creates a Config from environment variables. It does not validate.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
		TLSCert:  getEnv("TLS_CERT", ""),
		TLSKey:   getEnv("TLS_KEY", ""),

		ApplicationURI:           getEnv("APP_BASE_URI", ""),
		DefaultCharacterEncoding: getEnv("DEFAULT_CHARACTER_ENCODING", "UTF-8"),
		EnableSessionIDEncoding:  getBoolEnv("VIEWS_ENABLE_JSESSIONID", false),
		SessionCookieName:        getEnv("SESSION_COOKIE_NAME", "JSESSIONID"),
		ReverseMappingCacheTTL:   getEnv("REVERSE_MAPPING_CACHE_TTL", "5m"),

		RedisAddress:      getEnv("REDIS_ADDRESS", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnv("REDIS_DB", "0"),
		RedisPoolSize:     getEnv("REDIS_POOL_SIZE", "10"),
		RedirectAuditSize: getEnv("REDIRECT_AUDIT_SIZE", "100"),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv accepts the strconv.ParseBool forms; anything else yields
// defaultValue.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	v := validation.NewValidator()

	v.RequireRange(atoi(c.Port), 1, 65535, "PORT")
	v.RequireOneOf(c.LogLevel, []string{"debug", "info", "warn", "warning", "error"}, "LOG_LEVEL")
	if c.ReverseMappingCacheTTL != "0" {
		v.RequireDuration(c.ReverseMappingCacheTTL, "REVERSE_MAPPING_CACHE_TTL")
	}
	v.RequireString(c.SessionCookieName, "SESSION_COOKIE_NAME")

	if c.DefaultCharacterEncoding != "" {
		if _, err := htmlindex.Get(c.DefaultCharacterEncoding); err != nil {
			v.Reject("DEFAULT_CHARACTER_ENCODING", "DEFAULT_CHARACTER_ENCODING must name a known character encoding")
		}
	}

	if c.ApplicationURI != "" && c.ApplicationURI[0] != '/' {
		v.Reject("APP_BASE_URI", "APP_BASE_URI must start with /")
	}

	if (c.TLSCert == "") != (c.TLSKey == "") {
		v.Reject("TLS_CERT", "TLS_CERT and TLS_KEY must be set together")
	}

	if c.RedisAddress != "" {
		v.RequireRange(atoi(c.RedisDB), 0, 15, "REDIS_DB")
		v.RequireRange(atoi(c.RedisPoolSize), 1, 1000, "REDIS_POOL_SIZE")
		v.RequireRange(atoi(c.RedirectAuditSize), 1, 100000, "REDIRECT_AUDIT_SIZE")
	}

	if v.HasErrors() {
		appErr := apperrors.ConfigError("invalid configuration")
		appErr.Cause = v.Error()
		return appErr
	}
	return nil
}

// atoi returns -1 for unparsable input so range checks fail
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// CacheTTL returns the reverse mapping cache TTL
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.ReverseMappingCacheTTL)
	return d
}

// RedisEnabled reports whether the redirect audit is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

// RedisDBNumber returns REDIS_DB as an int
func (c *Config) RedisDBNumber() int {
	return atoi(c.RedisDB)
}

// RedisPoolSizeNumber returns REDIS_POOL_SIZE as an int
func (c *Config) RedisPoolSizeNumber() int {
	return atoi(c.RedisPoolSize)
}

// AuditSize returns REDIRECT_AUDIT_SIZE as an int
func (c *Config) AuditSize() int {
	return atoi(c.RedirectAuditSize)
}

// TLSEnabled reports whether both TLS files are configured
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
