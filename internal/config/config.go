// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the server.
type Config struct {
	Addr           string        `env:"VAULT_ADDR" envDefault:":8080"`
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	TLSCertFile    string        `env:"TLS_CERT_FILE"`
	TLSKeyFile     string        `env:"TLS_KEY_FILE"`
	CORSOrigins    string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`

	Secrets Secrets
}

// Secrets are never logged. String() redacts them.
type Secrets struct {
	MasterPassword string `env:"MASTER_PASSWORD,required,notEmpty"`
	EncryptionKey  string `env:"ENCRYPTION_KEY,required,notEmpty"`
	JWTSecret      string `env:"JWT_SECRET,required,notEmpty"`
	// SessionDuration is in seconds.
	SessionDuration int64 `env:"SESSION_DURATION" envDefault:"1800"`
}

// String implements fmt.Stringer without revealing any secret.
func (Secrets) String() string { return "[redacted]" }

// GoString keeps %#v from printing secrets.
func (s Secrets) GoString() string { return s.String() }

// Load reads an optional dotenv file and parses the environment.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Secrets.SessionDuration <= 0 {
		return errors.New("SESSION_DURATION must be a positive number of seconds")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// SessionTTL returns the session duration as time.Duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Secrets.SessionDuration) * time.Second
}

// TLS reports whether the server should listen with TLS.
func (c *Config) TLS() bool { return c.TLSCertFile != "" }
