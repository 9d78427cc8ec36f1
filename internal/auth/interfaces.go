package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/jwt-auth-api/internal/config"
)

// ErrExpiredToken is wrapped inside apperror.ErrInvalidToken when the only
// problem with a token is that it is past its expiry.
var ErrExpiredToken = errors.New("token has expired")

// TokenClaims is the verified content of a session token
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
// Verification failures are always reported as apperror.ErrInvalidToken.
type TokenService interface {
	CreateToken(userID uuid.UUID, email string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// PasswordHasher hashes passwords with a fresh random salt and verifies them
// against a stored digest.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// NewTokenService builds the token service selected by cfg.TokenFormat.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatJWT:
		return NewJWTService([]byte(cfg.JWTSecret), cfg.TokenLifetime())
	case config.TokenFormatPaseto:
		return NewPasetoService([]byte(cfg.PasetoKey), cfg.TokenLifetime())
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}

// NewPasswordHasher builds a hasher that hashes with cfg.PasswordHasher and
// verifies both bcrypt and argon2id digests.
func NewPasswordHasher(cfg config.AuthConfig) (PasswordHasher, error) {
	var primary PasswordHasher
	switch cfg.PasswordHasher {
	case config.HasherBcrypt:
		b, err := NewBcryptHasher(cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		primary = b
	case config.HasherArgon2id:
		primary = NewArgon2Hasher(cfg.Argon2Time)
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", cfg.PasswordHasher)
	}
	return NewMultiHasher(primary), nil
}
