package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired inspects the bearer token's exp claim without verifying the
// signature (the client holds no signing key; the services verify for real).
//
// A token that cannot be parsed is treated as expired so the caller falls
// back to a fresh login. A token without an exp claim is treated as valid.
func TokenExpired(token string) bool {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
