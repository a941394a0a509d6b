// Package config loads client configuration from the environment, with
// optional .env support.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/splitfair/splitfair/internal/session"
)

// Config holds everything the CLI needs to construct its collaborators.
// There is no ambient state: the loaded config is passed in explicitly.
type Config struct {
	// ServerEndpoint is the base address of the expense store.
	ServerEndpoint string

	// Session credentials: a bearer token, or a session cookie. Token
	// wins when both are set.
	SessionToken      string
	SessionCookie     string
	SessionCookieName string

	// CacheDBPath is the sqlite snapshot cache location. Empty disables
	// caching.
	CacheDBPath string

	HTTPTimeout time.Duration

	// UseH2C switches the store client to cleartext HTTP/2.
	UseH2C bool

	// Watch mode.
	WatchInterval time.Duration
	MetricsAddr   string
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() *Config {
	// Missing .env is fine; the environment alone is a valid source.
	_ = godotenv.Load()

	return &Config{
		ServerEndpoint:    getEnv("SERVER_ENDPOINT", "http://localhost:8000"),
		SessionToken:      getEnv("SESSION_TOKEN", ""),
		SessionCookie:     getEnv("SESSION_COOKIE", ""),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "token"),
		CacheDBPath:       getEnv("CACHE_DB_PATH", "./data/splitfair.db"),
		HTTPTimeout:       getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		UseH2C:            getEnvBool("HTTP2_CLEARTEXT", false),
		WatchInterval:     getEnvDuration("WATCH_INTERVAL", 30*time.Second),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
	}
}

// Validate checks the configuration and returns an error describing the
// first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid SERVER_ENDPOINT %q: must be an absolute URL", c.ServerEndpoint)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT %s: must be positive", c.HTTPTimeout)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("invalid WATCH_INTERVAL %s: must be positive", c.WatchInterval)
	}
	return nil
}

// Credentials builds the session credentials from the configured token
// or cookie. A configured token is checked for expiry up front so a
// stale session fails here instead of on the first store call.
func (c *Config) Credentials() (session.Credentials, error) {
	if c.SessionToken != "" {
		token := session.Token{Value: c.SessionToken}
		if err := token.Check(time.Now()); err != nil {
			return nil, fmt.Errorf("SESSION_TOKEN: %w", err)
		}
		return token, nil
	}
	if c.SessionCookie != "" {
		return session.Cookie{Name: c.SessionCookieName, Value: c.SessionCookie}, nil
	}
	return nil, fmt.Errorf("no session credentials: set SESSION_TOKEN or SESSION_COOKIE")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
