package jwtkit

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// RSASigner mints RS256 identity tokens with a fixed kid header. The login
// service never signs anything itself; the development API stand-in does.
type RSASigner struct {
	key *rsa.PrivateKey
	kid string
}

// NewRSASigner generates a fresh key; bits defaults to 2048.
func NewRSASigner(bits int, kid string) (*RSASigner, error) {
	if bits == 0 {
		bits = 2048
	}
	k, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return &RSASigner{key: k, kid: kid}, nil
}

func (s *RSASigner) PublicKey() *rsa.PublicKey { return &s.key.PublicKey }

// Sign encodes claims as a compact JWS.
func (s *RSASigner) Sign(_ context.Context, claims DecodedClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.kid
	return token.SignedString(s.key)
}

// IdentityClaims is what the API issues on login, with the email as subject.
func IdentityClaims(email, role, name, picture string, ttl time.Duration) DecodedClaims {
	now := time.Now()
	return DecodedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:    role,
		Name:    name,
		Picture: picture,
	}
}
