package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/redmonkez12/jwt-auth-api/internal/apperror"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	lifetime     time.Duration
}

func NewPasetoService(symmetricKey []byte, lifetime time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		lifetime:     lifetime,
	}, nil
}

// CreateToken generates a new PASETO v4.local token
func (s *PasetoService) CreateToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.lifetime))
	token.SetString("user_id", userID.String())
	token.SetString("email", email)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts a PASETO v4.local token and returns the claims
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	// Expiry is checked below so it can be told apart from tampering
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, apperror.New(apperror.InvalidToken, err)
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, apperror.New(apperror.InvalidToken, err)
	}
	if !time.Now().Before(expiresAt) {
		return nil, apperror.New(apperror.InvalidToken, ErrExpiredToken)
	}

	rawID, err := token.GetString("user_id")
	if err != nil {
		return nil, apperror.New(apperror.InvalidToken, err)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperror.New(apperror.InvalidToken, fmt.Errorf("invalid user id claim: %w", err))
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, apperror.New(apperror.InvalidToken, err)
	}
	if email == "" {
		return nil, apperror.New(apperror.InvalidToken, errors.New("missing claims"))
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, apperror.New(apperror.InvalidToken, err)
	}

	return &TokenClaims{
		UserID:    userID,
		Email:     email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
