package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"inbox-service/pkg/config"
)

// Bearer tokens are valid for a fixed 7 days from issuance.
const tokenTTL = 7 * 24 * time.Hour

// Token errors. Callers treat bearer auth as mandatory, so Verify fails
// loudly instead of returning an empty identity.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

var secret []byte

// Initialize configures the signing key from the loaded configuration.
func Initialize(cfg *config.JWTConfig) {
	secret = []byte(cfg.SigningKey)
}

// UserClaims represents the JWT claims for bearer authentication
type UserClaims struct {
	Role     string `json:"role,omitempty"`
	TenantID *uint  `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// Sign creates a bearer token for the given user. Role and tenant are
// embedded in the signed payload; they are not re-checked against the
// database per request, so a role change takes effect only on reissue.
func Sign(userID uint, role string, tenantID *uint) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Role:     role,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify validates a bearer token and returns the embedded identity.
func Verify(tokenString string) (userID uint, role string, tenantID *uint, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", nil, ErrExpiredToken
		}
		return 0, "", nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return 0, "", nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return 0, "", nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if claims.Role == "" {
		return 0, "", nil, fmt.Errorf("%w: role", ErrMissingClaim)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", nil, fmt.Errorf("%w: sub", ErrInvalidToken)
	}

	return uint(id), claims.Role, claims.TenantID, nil
}
