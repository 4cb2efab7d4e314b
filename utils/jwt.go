package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"marketpulse/config"

	"github.com/golang-jwt/jwt"
)

var errInvalidToken = errors.New("invalid token")

// signingSecret resolves the HMAC key from config, falling back to the
// environment so the worker binary can verify without a full config load.
func signingSecret() []byte {
	if s := config.AppConfig.JWTSecret; s != "" {
		return []byte(s)
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("marketpulse-dev")
}

// GenerateToken signs a provider-scoped token valid for the given duration.
func GenerateToken(providerID string, duration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": providerID,
		"iat": now.Unix(),
		"exp": now.Add(duration).Unix(),
	})
	return token.SignedString(signingSecret())
}

// HashToken returns the hex SHA-256 of a token string, used as the auth
// cache key so raw tokens never land in redis.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ExtractIDFromToken verifies a token's signature and expiry and returns
// the provider id from its subject claim.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingSecret(), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errInvalidToken
	}
	return sub, nil
}
