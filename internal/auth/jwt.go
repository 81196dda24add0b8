// File: internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the subset of the token payload the application relies on.
type Claims struct {
	UserID    uint
	UserType  string
	TokenID   string
	ExpiresAt time.Time
}

// TTL returns how long the token remains valid from now.
func (c *Claims) TTL() time.Duration {
	return time.Until(c.ExpiresAt)
}

// GenerateJWT signs an HS256 token for userID that expires after ttl.
func GenerateJWT(userID uint, userType string, secretKey []byte, ttl time.Duration) (string, error) {
	if userID == 0 {
		return "", errors.New("user ID cannot be zero")
	}
	if len(secretKey) == 0 {
		return "", errors.New("secret key cannot be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": userType,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ValidateToken checks the signature and expiry and returns the claims.
func ValidateToken(tokenString string, secretKey []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, ErrInvalidToken
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	typ, _ := mapClaims["typ"].(string)
	jti, _ := mapClaims["jti"].(string)

	return &Claims{
		UserID:    uint(sub),
		UserType:  typ,
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}
