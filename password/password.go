// Package password checks the credential hashes kept by the StockSync API.
package password

import (
	"errors"
	"strings"
)

// ErrUnsupportedHash is returned for stored values that are neither bcrypt
// nor argon2id, such as the marker kept for Google-provisioned accounts.
var ErrUnsupportedHash = errors.New("unsupported_hash")

// Verify checks password against a stored bcrypt or argon2id hash.
func Verify(stored, password string) (bool, error) {
	switch {
	case IsBcryptHash(stored):
		return VerifyBcrypt(stored, password)
	case strings.HasPrefix(stored, argon2Prefix):
		return VerifyArgon2id(stored, password)
	default:
		return false, ErrUnsupportedHash
	}
}
