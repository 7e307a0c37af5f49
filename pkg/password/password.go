package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. Changing them invalidates every stored digest, so the
// algorithm tag exists to allow a future migration.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

const algorithmTag = "scrypt"

// Hash derives a one-way digest for the password with a fresh random salt.
// The digest is self-describing: "scrypt$<salt hex>$<derived hex>".
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return fmt.Sprintf("%s$%s$%s", algorithmTag, hex.EncodeToString(salt), hex.EncodeToString(derived)), nil
}

// Verify reports whether password matches the stored digest. A malformed
// digest (wrong field count, unknown algorithm tag, bad hex) verifies false;
// the caller never learns which part failed.
func Verify(password, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false
	}
	if parts[0] != algorithmTag {
		return false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	if len(expected) != len(derived) {
		return false
	}
	return subtle.ConstantTimeCompare(expected, derived) == 1
}
