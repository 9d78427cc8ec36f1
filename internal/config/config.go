package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. It is public and therefore
// INSECURE: Load only accepts it when APP_ENV=dev.
const DefaultJWTSecret = "insecure-development-secret-change-me"

// MaxJWTExpiresIn caps JWT_EXPIRES_IN at ten years so the lifetime fits a time.Duration.
const MaxJWTExpiresIn = 10 * 365 * 24 * 60 * 60

const (
	TokenFormatJWT    = "jwt"
	TokenFormatPaseto = "paseto"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Env             string        `env:"APP_ENV" envDefault:"dev"` // dev or prod
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

type DatabaseConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"postgres"`
	Password     string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName       string `env:"DB_NAME" envDefault:"jwt_auth"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	AutoMigrate  bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"insecure-development-secret-change-me"`
	// Token lifetime in seconds
	JWTExpiresIn int    `env:"JWT_EXPIRES_IN" envDefault:"86400"`
	TokenFormat  string `env:"TOKEN_FORMAT" envDefault:"jwt"`
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey      string `env:"PASETO_KEY"`
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`
	Argon2Time     uint32 `env:"ARGON2_TIME" envDefault:"3"`
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Server.Env != "dev" && c.Auth.UsesDefaultSecret() && c.Auth.TokenFormat == TokenFormatJWT {
		return errors.New("JWT_SECRET must be set outside of the dev environment")
	}

	if c.Auth.JWTExpiresIn <= 0 || c.Auth.JWTExpiresIn > MaxJWTExpiresIn {
		return fmt.Errorf("JWT_EXPIRES_IN must be between 1 and %d seconds, got %d", MaxJWTExpiresIn, c.Auth.JWTExpiresIn)
	}

	switch c.Auth.TokenFormat {
	case TokenFormatJWT:
	case TokenFormatPaseto:
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("unsupported TOKEN_FORMAT %q", c.Auth.TokenFormat)
	}

	switch c.Auth.PasswordHasher {
	case HasherBcrypt:
		if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
		}
	case HasherArgon2id:
		if c.Auth.Argon2Time == 0 {
			return errors.New("ARGON2_TIME must be at least 1")
		}
	default:
		return fmt.Errorf("unsupported PASSWORD_HASHER %q", c.Auth.PasswordHasher)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// TokenLifetime returns JWTExpiresIn as a duration.
func (c *AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.JWTExpiresIn) * time.Second
}

// UsesDefaultSecret reports whether the signing key is the published default.
func (c *AuthConfig) UsesDefaultSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}
