// Package password derives and verifies stored credentials. A stored hash has
// the form "<salt>:<key>" where salt is 32 hex characters and key is the hex
// encoded 64 byte scrypt output. The salt string itself, not its decoded
// bytes, is fed to scrypt so hashes interoperate with existing user stores.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/scrypt"
)

const (
	SaltBytes = 16
	KeyLength = 64
	MinLength = 8

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// LongEnough counts characters, not bytes.
func LongEnough(plain string) bool {
	return utf8.RuneCountInString(plain) >= MinLength
}

// Hash derives a stored hash for plain with a fresh random salt.
func Hash(plain string) (string, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", goerr.Wrap(err, "failed to generate salt")
	}
	return HashWithSalt(plain, hex.EncodeToString(salt))
}

func HashWithSalt(plain, salt string) (string, error) {
	if salt == "" {
		return "", goerr.New("empty salt")
	}
	key, err := derive(plain, salt)
	if err != nil {
		return "", err
	}
	return salt + ":" + hex.EncodeToString(key), nil
}

// Verify reports whether plain matches stored. Malformed stored values never
// match.
func Verify(plain, stored string) bool {
	salt, keyHex, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || keyHex == "" {
		return false
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) != KeyLength {
		return false
	}
	actual, err := derive(plain, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// IsHash reports whether stored looks like a value produced by Hash.
func IsHash(stored string) bool {
	salt, keyHex, ok := strings.Cut(stored, ":")
	if !ok || salt == "" {
		return false
	}
	key, err := hex.DecodeString(keyHex)
	return err == nil && len(key) == KeyLength
}

func derive(plain, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(plain), []byte(salt), scryptN, scryptR, scryptP, KeyLength)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to derive key")
	}
	return key, nil
}
