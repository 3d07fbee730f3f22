package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims are the claims the dev backend signs into bearer tokens.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// GenerateToken creates a signed JWT with the given subject and role.
// The token expires after the specified duration.
func GenerateToken(secret []byte, subject, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string and returns its claims.
func ValidateToken(secret []byte, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TokenExpiry reads the exp claim without verifying the signature.
// ok is false for opaque (non-JWT) tokens and tokens without exp.
func TokenExpiry(tokenString string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	default:
		return time.Time{}, false
	}
}
