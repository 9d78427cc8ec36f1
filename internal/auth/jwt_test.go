package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/jwt-auth-api/internal/apperror"
)

var testSecret = []byte("test-secret-with-enough-entropy")

func newTestJWTService(t *testing.T, lifetime time.Duration) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, lifetime)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService(nil, time.Hour)
	assert.Error(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.CreateToken(userID, "ann@example.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 2*time.Second)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestJWT_Expired(t *testing.T) {
	svc := newTestJWTService(t, -time.Minute)

	token, err := svc.CreateToken(uuid.New(), "ann@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWT_TamperedSignature(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	token, err := svc.CreateToken(uuid.New(), "ann@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = svc.VerifyToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
	assert.False(t, errors.Is(err, ErrExpiredToken))
}

func TestJWT_TamperedPayload(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	other := newTestJWTService(t, time.Hour)

	token, err := svc.CreateToken(uuid.New(), "ann@example.com")
	require.NoError(t, err)
	forged, err := other.CreateToken(uuid.New(), "mallory@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[1] = strings.Split(forged, ".")[1]

	_, err = svc.VerifyToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	other, err := NewJWTService([]byte("another-secret"), time.Hour)
	require.NoError(t, err)

	token, err := other.CreateToken(uuid.New(), "ann@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestJWT_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	now := time.Now()
	claims := jwtClaims{
		UserID: uuid.NewString(),
		Email:  "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	tests := []struct {
		name   string
		method jwt.SigningMethod
		key    any
	}{
		{name: "HS512", method: jwt.SigningMethodHS512, key: testSecret},
		{name: "none", method: jwt.SigningMethodNone, key: jwt.UnsafeAllowNoneSignatureType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(tt.method, claims).SignedString(tt.key)
			require.NoError(t, err)

			_, err = svc.VerifyToken(token)
			assert.ErrorIs(t, err, apperror.ErrInvalidToken)
		})
	}
}

func TestJWT_MissingExpiry(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	claims := jwtClaims{
		UserID: uuid.NewString(),
		Email:  "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestJWT_InvalidUserIDClaim(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	now := time.Now()
	claims := jwtClaims{
		UserID: "not-a-uuid",
		Email:  "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestJWT_Malformed(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := svc.VerifyToken(token)
		assert.ErrorIs(t, err, apperror.ErrInvalidToken, "token %q", token)
	}
}
