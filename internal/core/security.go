// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var ErrInvalidHash = errors.New("invalid password hash")

// PasswordParams are the argon2id cost settings. They are encoded into each
// hash, so stored hashes stay verifiable after the defaults change.
type PasswordParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

var DefaultPasswordParams = PasswordParams{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// Hash encodes password in the PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func (p PasswordParams) Hash(password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	h := passwordHash{params: p, salt: salt, key: p.derive(password, salt)}
	return h.String(), nil
}

func (p PasswordParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

func (p PasswordParams) sameCost(o PasswordParams) bool {
	return p.Memory == o.Memory && p.Time == o.Time &&
		p.Threads == o.Threads && p.KeyLen == o.KeyLen
}

func HashPassword(password string) (string, error) {
	return DefaultPasswordParams.Hash(password)
}

// CheckPassword reports whether password matches the stored hash. When it
// matches a hash made with other parameters, upgraded carries a fresh hash
// under the defaults for the caller to store.
func CheckPassword(password, encoded string) (ok bool, upgraded string, err error) {
	stored, err := parsePasswordHash(encoded)
	if err != nil {
		return false, "", err
	}

	candidate := stored.params.derive(password, stored.salt)
	if subtle.ConstantTimeCompare(stored.key, candidate) != 1 {
		return false, "", nil
	}

	if stored.params.sameCost(DefaultPasswordParams) {
		return true, "", nil
	}

	upgraded, err = HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password matched; the upgrade is retried next login
		return true, "", nil
	}
	return true, upgraded, nil
}

var dummyHash = sync.OnceValue(func() string {
	h, err := HashPassword("hotelbook-unknown-account")
	if err != nil {
		panic(fmt.Sprintf("security: dummy hash: %v", err))
	}
	return h
})

// CheckPasswordTimingSafe is CheckPassword for login paths. An empty hash
// means no such account: a dummy hash is still verified so unknown emails
// cost as much as wrong passwords, and the result is always false.
func CheckPasswordTimingSafe(password, encoded string) (bool, string, error) {
	if encoded == "" {
		//nolint:errcheck // only the elapsed time matters
		_, _, _ = CheckPassword(password, dummyHash())
		return false, "", nil
	}
	return CheckPassword(password, encoded)
}

// ConstantTimeEqual compares two secrets in constant time. Both sides are
// hashed first so inputs of unequal length take the same path.
func ConstantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

type passwordHash struct {
	params PasswordParams
	salt   []byte
	key    []byte
}

func (h passwordHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

func parsePasswordHash(encoded string) (*passwordHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: malformed", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("%w: algorithm %q", ErrInvalidHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: version %q", ErrInvalidHash, parts[2])
	}

	var h passwordHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&h.params.Memory, &h.params.Time, &h.params.Threads); err != nil {
		return nil, fmt.Errorf("%w: params: %v", ErrInvalidHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}

	//nolint:gosec // G115: argon2id keys are a few dozen bytes
	h.params.KeyLen = uint32(len(h.key))
	h.params.SaltLen = len(h.salt)

	return &h, nil
}
