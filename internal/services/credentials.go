package services

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 10000
	pbkdf2KeyLength  = 64
	saltLength       = 16
)

// HashPassword derives a salted key from password.
// The result is hex(key) + "." + hex(salt).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	return derive(password, saltHex) + "." + saltHex, nil
}

// VerifyPassword reports whether password matches a value produced by HashPassword
func VerifyPassword(password, stored string) bool {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	derived := derive(password, parts[1])
	return subtle.ConstantTimeCompare([]byte(derived), []byte(parts[0])) == 1
}

// derive uses the hex salt string itself as the salt bytes
func derive(password, saltHex string) string {
	key := pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	return hex.EncodeToString(key)
}
