package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// MinSessionSecretLength is the shortest accepted cookie signing key.
const MinSessionSecretLength = 32

// Config holds runtime configuration values for the SDA admin service.
type Config struct {
	DBDriver            string `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite"`
	DatabaseURL         string `env:"DATABASE_URL" envDefault:"host=localhost user=postgres dbname=sda port=5432 sslmode=disable"`
	DBPath              string `env:"DB_PATH" envDefault:"./data/sda-admin.db"`
	ManageContentSchema bool   `env:"DB_MANAGE_CONTENT_SCHEMA" envDefault:"false"`

	ServerPort    int           `env:"SERVER_PORT" envDefault:"8001" validate:"min=1,max=65535"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"LOG_FILE"`
	SentryDSN     string        `env:"SENTRY_DSN"`
	Environment   string        `env:"ENV" envDefault:"development"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`

	// TrustedProxies lists the addresses or CIDR ranges allowed to report
	// the client address through X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`

	Upload    UploadConfig
	Session   SessionConfig
	RateLimit RateLimitConfig

	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en" validate:"oneof=en az ru"`
	ListPerPage     int    `env:"LIST_PER_PAGE" envDefault:"20" validate:"min=1,max=100"`
}

// UploadConfig configures the relay to the external upload endpoint.
type UploadConfig struct {
	Endpoint    string        `env:"BACKEND_UPLOAD_URL" envDefault:"http://localhost:8000/upload" validate:"required,url"`
	URLField    string        `env:"UPLOAD_URL_FIELD" envDefault:"url" validate:"required"`
	Timeout     time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"30s"`
	MaxAttempts int           `env:"UPLOAD_MAX_ATTEMPTS" envDefault:"3" validate:"min=1"`
	MaxBytes    int64         `env:"UPLOAD_MAX_BYTES" envDefault:"10485760" validate:"min=1"`
}

// SessionConfig configures the admin login cookie.
type SessionConfig struct {
	Secret string `env:"SESSION_SECRET"`
	Secure bool   `env:"SESSION_SECURE" envDefault:"false"`
}

// RateLimitConfig throttles login attempts per client.
type RateLimitConfig struct {
	Burst             int           `env:"LOGIN_RATE_BURST" envDefault:"5" validate:"min=1"`
	RequestsPerSecond float64       `env:"LOGIN_RATE_PER_SECOND" envDefault:"0.2" validate:"gt=0"`
	ClientTTL         time.Duration `env:"LOGIN_RATE_CLIENT_TTL" envDefault:"10m"`
}

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, eris.Wrap(err, "parsing environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that the environment parser cannot express.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "invalid configuration")
	}

	if c.DBDriver == "postgres" && c.DatabaseURL == "" {
		return eris.New("DATABASE_URL is required when DB_DRIVER is postgres")
	}
	if c.DBDriver == "sqlite" && c.DBPath == "" {
		return eris.New("DB_PATH is required when DB_DRIVER is sqlite")
	}
	if c.Upload.Timeout <= 0 {
		return eris.Errorf("invalid UPLOAD_TIMEOUT value: %s", c.Upload.Timeout)
	}
	return nil
}

// ValidateServe checks the settings that only the HTTP server needs.
func (c *Config) ValidateServe() error {
	if len(c.Session.Secret) < MinSessionSecretLength {
		return eris.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}
	return nil
}
