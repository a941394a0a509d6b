package config

import (
	"errors"
	"testing"
	"time"

	"github.com/splitfair/splitfair/internal/session"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_ENDPOINT", "SESSION_TOKEN", "SESSION_COOKIE",
		"SESSION_COOKIE_NAME", "CACHE_DB_PATH", "HTTP_TIMEOUT",
		"HTTP2_CLEARTEXT", "WATCH_INTERVAL", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerEndpoint != "http://localhost:8000" {
		t.Errorf("endpoint = %q, want default", cfg.ServerEndpoint)
	}
	if cfg.SessionCookieName != "token" {
		t.Errorf("cookie name = %q, want token", cfg.SessionCookieName)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.UseH2C {
		t.Error("h2c should default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ENDPOINT", "https://api.example.com")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("HTTP2_CLEARTEXT", "true")
	t.Setenv("WATCH_INTERVAL", "5s")

	cfg := Load()
	if cfg.ServerEndpoint != "https://api.example.com" {
		t.Errorf("endpoint = %q", cfg.ServerEndpoint)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.HTTPTimeout)
	}
	if !cfg.UseH2C {
		t.Error("expected h2c enabled")
	}
	if cfg.WatchInterval != 5*time.Second {
		t.Errorf("watch interval = %v, want 5s", cfg.WatchInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"relative endpoint", func(c *Config) { c.ServerEndpoint = "localhost:8000" }, true},
		{"empty endpoint", func(c *Config) { c.ServerEndpoint = "" }, true},
		{"non-positive timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"non-positive watch interval", func(c *Config) { c.WatchInterval = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ServerEndpoint: "http://localhost:8000",
				HTTPTimeout:    15 * time.Second,
				WatchInterval:  30 * time.Second,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	t.Run("cookie when no token set", func(t *testing.T) {
		cfg := &Config{SessionCookie: "abc", SessionCookieName: "token"}
		creds, err := cfg.Credentials()
		if err != nil {
			t.Fatalf("Credentials failed: %v", err)
		}
		cookie, ok := creds.(session.Cookie)
		if !ok || cookie.Value != "abc" {
			t.Errorf("creds = %#v, want session.Cookie with value abc", creds)
		}
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		cfg := &Config{SessionToken: "garbage"}
		if _, err := cfg.Credentials(); !errors.Is(err, session.ErrMalformedToken) {
			t.Errorf("error = %v, want ErrMalformedToken", err)
		}
	})

	t.Run("neither configured", func(t *testing.T) {
		cfg := &Config{}
		if _, err := cfg.Credentials(); err == nil {
			t.Error("expected error with no credentials")
		}
	})
}
