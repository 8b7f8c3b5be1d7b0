package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every issued token.
type Claims struct {
	UserID   int64
	Email    string
	Role     string
	FullName string
}

func Issue(secret string, c Claims, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub":       c.UserID,
		"email":     c.Email,
		"role":      c.Role,
		"full_name": c.FullName,
		"exp":       time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAuth validates a raw Authorization header value and returns the claims.
func ParseAuth(authHeader string, secret string) (Claims, error) {
	tokenStr := strings.TrimSpace(authHeader)
	if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
		tokenStr = strings.TrimSpace(tokenStr[7:])
	}
	if tokenStr == "" {
		return Claims{}, errors.New("missing token")
	}

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Claims{}, err
	}
	if !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	return FromMapClaims(mc)
}

// FromMapClaims converts parsed MapClaims into Claims.
func FromMapClaims(mc jwt.MapClaims) (Claims, error) {
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, errors.New("sub missing in claims")
	}
	role, _ := mc["role"].(string)
	if role == "" {
		return Claims{}, errors.New("role missing in claims")
	}
	email, _ := mc["email"].(string)
	fullName, _ := mc["full_name"].(string)
	return Claims{
		UserID:   int64(sub),
		Email:    email,
		Role:     role,
		FullName: fullName,
	}, nil
}
