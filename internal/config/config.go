package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"

	// DefaultSessionSecret is only acceptable outside prod.
	DefaultSessionSecret = "dev-session-secret"
)

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", SESSION_SECRET must be set and not the default.
	Env string

	// SessionSecret signs the session cookie.
	SessionSecret string
	// SecureCookie sets the Secure flag on the session cookie. Defaults to true in prod.
	SecureCookie bool
	// SessionMaxAge is both the cookie Max-Age and the server-side session lifetime (default 24h).
	SessionMaxAge time.Duration
	// SessionSweepInterval is how often expired sessions are pruned (default 24h).
	SessionSweepInterval time.Duration

	// StoreDriver is "memory" (default) or "postgres".
	StoreDriver string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// PasswordHash is the algorithm for new password hashes: "bcrypt" (default) or "argon2id".
	PasswordHash string

	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	env := getEnv("ENV", "dev")

	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  env,

		SessionSecret:        getEnv("SESSION_SECRET", DefaultSessionSecret),
		SecureCookie:         getEnvBool("COOKIE_SECURE", env == "prod"),
		SessionMaxAge:        getEnvDuration("SESSION_MAX_AGE", 24*time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 24*time.Hour),

		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "chatboard"),
		DBUser: getEnv("DB_USER", "chatboard"),
		DBPass: getEnv("DB_PASS", "chatboard"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		PasswordHash: getEnv("PASSWORD_HASH", HashBcrypt),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.StoreDriver != StoreMemory && c.StoreDriver != StorePostgres {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, c.StoreDriver))
	}
	if c.PasswordHash != HashBcrypt && c.PasswordHash != HashArgon2id {
		errs = append(errs, fmt.Errorf("PASSWORD_HASH must be %q or %q, got %q", HashBcrypt, HashArgon2id, c.PasswordHash))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET must not be empty"))
	}
	if c.Env == "prod" && c.SessionSecret == DefaultSessionSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be set in prod"))
	}
	if c.SessionMaxAge <= 0 || c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("session durations must be positive"))
	}
	return errors.Join(errs...)
}

// DatabaseURL is the postgres URL form of the DB_* settings, used by migrations.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
