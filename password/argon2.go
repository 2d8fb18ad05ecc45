package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

var errBadArgon2 = errors.New("password: malformed argon2id hash")

// Argon2Params are the cost settings written into an encoded hash.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
}

// DefaultArgon2 matches what the API uses for new accounts.
var DefaultArgon2 = Argon2Params{Memory: 64 * 1024, Time: 1, Threads: 1}

// HashArgon2id encodes password as $argon2id$v=19$m=..,t=..,p=..$salt$key.
func HashArgon2id(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	p := DefaultArgon2
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, 32)
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s", argon2Prefix, argon2.Version,
		p.Memory, p.Time, p.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyArgon2id recomputes the key with the parameters stored in encoded.
func VerifyArgon2id(encoded, password string) (bool, error) {
	rest, ok := strings.CutPrefix(encoded, argon2Prefix)
	if !ok {
		return false, errBadArgon2
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return false, errBadArgon2
	}
	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errBadArgon2
	}
	var p Argon2Params
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return false, errBadArgon2
	}
	salt, err := base64.RawStdEncoding.DecodeString(fields[2])
	if err != nil {
		return false, errBadArgon2
	}
	want, err := base64.RawStdEncoding.DecodeString(fields[3])
	if err != nil || len(want) == 0 {
		return false, errBadArgon2
	}
	got := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
