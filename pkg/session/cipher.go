package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidEnvelope is returned for any envelope that cannot be opened:
// bad framing, bad hex, wrong key, corrupted ciphertext or invalid JSON.
var ErrInvalidEnvelope = errors.New("invalid session envelope")

const (
	keyLabel      = "accountsvc-session-key"
	keyIterations = 10000
	keyLen        = 32
)

// Cipher seals and opens session envelopes with AES-256-CBC. The key is
// derived once from the configured secret and reused for the process
// lifetime; rotating the secret invalidates all outstanding envelopes.
type Cipher struct {
	key []byte
}

func NewCipher(secret string) *Cipher {
	key := pbkdf2.Key([]byte(secret), []byte(keyLabel), keyIterations, keyLen, sha256.New)
	return &Cipher{key: key}
}

// Seal encrypts the envelope and returns it as "ivHex:cipherHex".
// Any failure is a hard error; there is no plaintext fallback.
func (c *Cipher) Seal(env Envelope) (string, error) {
	plaintext, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("envelope encoding error: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("cipher init error: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("iv generation error: %w", err)
	}

	padded := pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Open decrypts an envelope produced by Seal. Input without the ":"
// delimiter is treated as a legacy base64-encoded JSON envelope and
// decoded directly. All failures normalize to ErrInvalidEnvelope.
func (c *Cipher) Open(encoded string) (*Envelope, error) {
	ivHex, cipherHex, found := strings.Cut(encoded, ":")
	if !found {
		return openLegacy(encoded)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return nil, ErrInvalidEnvelope
	}
	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidEnvelope
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, ok := unpad(plaintext, aes.BlockSize)
	if !ok {
		return nil, ErrInvalidEnvelope
	}

	var env Envelope
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return nil, ErrInvalidEnvelope
	}
	return &env, nil
}

func openLegacy(encoded string) (*Envelope, error) {
	plaintext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	var env Envelope
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return nil, ErrInvalidEnvelope
	}
	return &env, nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
