// Package jwtx extracts verified token claims from the echo context set by
// the echo-jwt middleware.
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwtutil "github.com/miteshanshu/Library-Management-System-Database/util/jwt"
)

func ClaimsFromContext(c echo.Context) (jwtutil.Claims, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return jwtutil.Claims{}, errors.New("no jwt token in context")
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return jwtutil.Claims{}, errors.New("invalid jwt claims")
	}
	return jwtutil.FromMapClaims(mc)
}

func UserIDFromContext(c echo.Context) (int64, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func EmailFromContext(c echo.Context) (string, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", errors.New("email missing in claims")
	}
	return claims.Email, nil
}
