package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ticketing/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID   int64       `json:"id"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewToken(user models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		ID:   user.ID,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies an HS256 token and returns the identity it carries.
func Parse(tokenString, secret string) (models.Identity, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ID == 0 || !claims.Role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: missing id or role", ErrInvalidToken)
	}

	return models.Identity{ID: claims.ID, Role: claims.Role}, nil
}
