package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	iterations = 10000
	keyLen     = 64
)

// Hash derives a salted PBKDF2-SHA512 hash for the given password.
// A fresh random salt is generated per call, so hashing the same
// password twice yields different results.
func Hash(password string) (hashHex, saltHex string, err error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("salt generation error: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha512.New)

	return hex.EncodeToString(hash), hex.EncodeToString(salt), nil
}

// Verify recomputes the derivation with the stored salt and compares in
// constant time. Malformed hex in either argument fails the comparison
// instead of erroring.
func Verify(password, hashHex, saltHex string) bool {
	storedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	if len(storedHash) != keyLen {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha512.New)

	return subtle.ConstantTimeCompare(candidate, storedHash) == 1
}
