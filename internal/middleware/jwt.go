package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTTL = 1 * time.Hour
	iss      = "threatviz"
)

// GenerateJWTToken issues a short-lived token for a producer that already
// authenticated with the static API token. Webhook calls accept either.
func GenerateJWTToken(subject, secret string, issuedAt time.Time) (string, time.Time, error) {
	expiresAt := issuedAt.Add(tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": iss,
		"sub": subject,
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyJWTToken validates a token issued by GenerateJWTToken
func VerifyJWTToken(tokenString, secret string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure token's signing method matches
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return token, nil
}
