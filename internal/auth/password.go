package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/5con/fittrack/pkg"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 10000
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a PBKDF2-SHA256 key from password and a random salt.
// The result is base64(salt || key).
func HashPassword(password string) (string, error) {
	salt, err := pkg.GenerateRandomBytes(saltSize)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return encode(salt, derive(password, salt)), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, stored string) (bool, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if len(raw) != saltSize+keySize {
		return false, fmt.Errorf("%w: unexpected length %d", ErrMalformedHash, len(raw))
	}

	salt, want := raw[:saltSize], raw[saltSize:]
	got := derive(password, salt)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
}

func encode(salt, key []byte) string {
	buf := make([]byte, 0, len(salt)+len(key))
	buf = append(buf, salt...)
	buf = append(buf, key...)
	return base64.StdEncoding.EncodeToString(buf)
}
