package httpx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims taskdeck reads from an access token. Tokens
// are minted by the identity system; this service only verifies them. The
// signer here exists for that system, ops tooling, and tests.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignAccessToken mints an HS256 access token for a user with a role claim.
func SignAccessToken(secret []byte, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccessToken parses and validates an HS256 access token, rejecting
// any other signing algorithm.
func VerifyAccessToken(secret []byte, raw string) (AccessClaims, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}
