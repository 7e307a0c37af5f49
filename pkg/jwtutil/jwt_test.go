package jwtutil

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-service/pkg/config"
)

func initTestCodec(t *testing.T) {
	t.Helper()
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key"})
}

func uintPtr(v uint) *uint { return &v }

func TestSignVerifyRoundTrip(t *testing.T) {
	initTestCodec(t)

	token, err := Sign(42, "user", uintPtr(5))
	require.NoError(t, err)

	userID, role, tenantID, err := Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "user", role)
	require.NotNil(t, tenantID)
	assert.Equal(t, uint(5), *tenantID)
}

func TestAdminTokenHasNoTenant(t *testing.T) {
	initTestCodec(t)

	token, err := Sign(1, "admin", nil)
	require.NoError(t, err)

	_, role, tenantID, err := Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
	assert.Nil(t, tenantID)
}

// signRaw issues a token with arbitrary claims under the live signing key.
func signRaw(t *testing.T, claims UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestVerifyRejectsExpired(t *testing.T) {
	initTestCodec(t)

	token := signRaw(t, UserClaims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	})

	_, _, _, err := Verify(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsMissingClaims(t *testing.T) {
	initTestCodec(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	t.Run("no subject", func(t *testing.T) {
		token := signRaw(t, UserClaims{
			Role:             "user",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
		})
		_, _, _, err := Verify(token)
		require.ErrorIs(t, err, ErrMissingClaim)
	})

	t.Run("no role", func(t *testing.T) {
		token := signRaw(t, UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: future},
		})
		_, _, _, err := Verify(token)
		require.ErrorIs(t, err, ErrMissingClaim)
	})
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	initTestCodec(t)
	token, err := Sign(1, "admin", nil)
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "other-signing-key"})
	_, _, _, err = Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	initTestCodec(t)

	for _, token := range []string{"", "abc", "a.b.c", "…"} {
		_, _, _, err := Verify(token)
		assert.Error(t, err)
	}
}

func TestSubjectCarriesUserID(t *testing.T) {
	initTestCodec(t)

	token, err := Sign(123456, "user", uintPtr(1))
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &UserClaims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*UserClaims)
	assert.Equal(t, strconv.Itoa(123456), claims.Subject)
}
