package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	// SessionExpiration defines the lifetime of tokens minted for library sessions.
	SessionExpiration = 10 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "ULibrary"
)

// GenerateToken creates and signs a new JWT string for payload.
func GenerateToken(payload *Payload, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	payload.StandardClaims = jwt.StandardClaims{
		Id:        uuid.NewString(),
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates the JWT string using secretKey.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// ExpiresAt reads the exp claim of tokenString without verifying its signature.
// ok is false when the token is not a JWT (e.g. an opaque DRF token) or carries no exp claim.
func ExpiresAt(tokenString string) (exp time.Time, ok bool) {
	claims := &jwt.StandardClaims{}

	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}

	return time.Unix(claims.ExpiresAt, 0), true
}

// IsExpired reports whether tokenString is a JWT whose exp claim lies before now.
// Opaque tokens are never considered expired; only the backend can judge them.
func IsExpired(tokenString string, now time.Time) bool {
	exp, ok := ExpiresAt(tokenString)
	return ok && !now.Before(exp)
}
