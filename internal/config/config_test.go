package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_DRIVER", "DATABASE_URL", "DB_PATH", "DB_MANAGE_CONTENT_SCHEMA",
		"SERVER_PORT", "LOG_LEVEL", "LOG_FILE", "SENTRY_DSN", "ENV", "SHUTDOWN_GRACE",
		"BACKEND_UPLOAD_URL", "UPLOAD_URL_FIELD", "UPLOAD_TIMEOUT", "UPLOAD_MAX_ATTEMPTS", "UPLOAD_MAX_BYTES",
		"SESSION_SECRET", "SESSION_SECURE", "DEFAULT_LANGUAGE", "LIST_PER_PAGE",
		"LOGIN_RATE_BURST", "LOGIN_RATE_PER_SECOND", "LOGIN_RATE_CLIENT_TTL", "TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBDriver != "postgres" {
		t.Errorf("expected default driver postgres, got %q", cfg.DBDriver)
	}

	if cfg.DBPath != "./data/sda-admin.db" {
		t.Errorf("expected default DB path, got %q", cfg.DBPath)
	}

	if cfg.ManageContentSchema {
		t.Errorf("expected content schema to be externally managed by default")
	}

	if cfg.ServerPort != 8001 {
		t.Errorf("expected default server port 8001, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected default environment development, got %q", cfg.Environment)
	}

	if cfg.ShutdownGrace != 10*time.Second {
		t.Errorf("expected shutdown grace 10s, got %s", cfg.ShutdownGrace)
	}

	if cfg.Upload.Endpoint != "http://localhost:8000/upload" {
		t.Errorf("expected default upload endpoint, got %q", cfg.Upload.Endpoint)
	}

	if cfg.Upload.Timeout != 30*time.Second || cfg.Upload.MaxAttempts != 3 {
		t.Errorf("expected 30s timeout and 3 attempts, got %s and %d", cfg.Upload.Timeout, cfg.Upload.MaxAttempts)
	}

	if cfg.Upload.MaxBytes != 10<<20 {
		t.Errorf("expected 10 MiB upload limit, got %d", cfg.Upload.MaxBytes)
	}

	if cfg.RateLimit.Burst != 5 || cfg.RateLimit.ClientTTL != 10*time.Minute {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}

	if cfg.DefaultLanguage != "en" || cfg.ListPerPage != 20 {
		t.Errorf("unexpected list defaults: %q %d", cfg.DefaultLanguage, cfg.ListPerPage)
	}

	if cfg.SentryDSN != "" {
		t.Errorf("expected empty Sentry DSN, got %q", cfg.SentryDSN)
	}

	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/sda.db")
	t.Setenv("DB_MANAGE_CONTENT_SCHEMA", "true")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("BACKEND_UPLOAD_URL", "https://api.sda.example/upload")
	t.Setenv("UPLOAD_URL_FIELD", "data.url")
	t.Setenv("UPLOAD_TIMEOUT", "5s")
	t.Setenv("SESSION_SECRET", strings.Repeat("s", MinSessionSecretLength))
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("DEFAULT_LANGUAGE", "az")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBDriver != "sqlite" || cfg.DBPath != "/tmp/sda.db" {
		t.Errorf("unexpected database settings: %q %q", cfg.DBDriver, cfg.DBPath)
	}

	if !cfg.ManageContentSchema {
		t.Errorf("expected content schema to be managed")
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got %q", cfg.Environment)
	}

	if cfg.Upload.Endpoint != "https://api.sda.example/upload" || cfg.Upload.URLField != "data.url" {
		t.Errorf("unexpected upload settings: %+v", cfg.Upload)
	}

	if cfg.Upload.Timeout != 5*time.Second {
		t.Errorf("expected upload timeout 5s, got %s", cfg.Upload.Timeout)
	}

	if !cfg.Session.Secure {
		t.Errorf("expected secure session cookie")
	}

	if cfg.DefaultLanguage != "az" {
		t.Errorf("expected default language az, got %q", cfg.DefaultLanguage)
	}

	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.0/8" || cfg.TrustedProxies[1] != "127.0.0.1" {
		t.Errorf("unexpected trusted proxies: %v", cfg.TrustedProxies)
	}

	if err := cfg.ValidateServe(); err != nil {
		t.Errorf("ValidateServe returned error: %v", err)
	}
}

func TestLoadRejectsMalformedTrustedProxy(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,proxy.local")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed trusted proxy, got nil")
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid port, got nil")
	}

	if !strings.Contains(err.Error(), "ServerPort") {
		t.Fatalf("expected error to mention ServerPort, got %v", err)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver, got nil")
	}
}

func TestLoadRejectsOutOfRangePort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out of range port, got nil")
	}
}

func TestValidateServeRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "short")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	err = cfg.ValidateServe()
	if err == nil {
		t.Fatalf("expected error for short session secret, got nil")
	}

	if !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected error to mention SESSION_SECRET, got %v", err)
	}
}
