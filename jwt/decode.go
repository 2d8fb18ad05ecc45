package jwtkit

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DecodedClaims are the identity fields the backend puts in its tokens.
type DecodedClaims struct {
	jwt.RegisteredClaims
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// ErrMalformedToken is returned when a token cannot be split or decoded.
var ErrMalformedToken = errors.New("malformed_token")

// DecodeUnverified reads the claims of a JWT without checking its signature,
// expiry or issuer. The result is only fit for display and session population.
func DecodeUnverified(token string) (DecodedClaims, error) {
	var claims DecodedClaims
	token = strings.TrimSpace(token)
	if token == "" {
		return claims, ErrMalformedToken
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return DecodedClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}
