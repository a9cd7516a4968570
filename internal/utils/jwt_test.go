package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	s := NewJWTService("secret", time.Hour)

	token, err := s.GenerateToken("user-1")
	require.NoError(t, err)

	userID, err := s.ExtractUserID(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret", time.Hour).GenerateToken("user-1")
	require.NoError(t, err)

	_, err = NewJWTService("other", time.Hour).ExtractUserID(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ExtractUserID(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_MissingClaims(t *testing.T) {
	// Без exp токен отклоняется
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewJWTService("secret", time.Hour).ExtractUserID(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Числовой user_id не принимается
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewJWTService("secret", time.Hour).ExtractUserID(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).ExtractUserID("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
