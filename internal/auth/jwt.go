package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FlashClaims carries a one-shot message across a post/redirect/get cycle.
type FlashClaims struct {
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// FlashExpiry bounds how long a flash survives if it is never displayed.
const FlashExpiry = 5 * time.Minute

// SignFlash creates a signed flash token for message.
func SignFlash(secret, message string) (string, error) {
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, FlashClaims{
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(FlashExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing flash: %w", err)
	}
	return signed, nil
}

// ReadFlash validates a flash token and returns its message.
func ReadFlash(secret, tokenStr string) (string, error) {
	var claims FlashClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parsing flash: %w", err)
	}
	return claims.Message, nil
}
