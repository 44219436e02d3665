// Package crypto provides the AES-GCM codec used to encrypt conversation
// turns and cached replies before they reach the backing store.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// NonceSize is the GCM standard nonce size (12 bytes).
	NonceSize = 12
	// KeySize is the required key length for AES-256-GCM (32 bytes).
	KeySize = 32
)

var (
	ErrInvalidKeySize = fmt.Errorf("key must be exactly %d bytes", KeySize)
	// ErrDecrypt marks any failure to recover plaintext from a token:
	// wrong key, tampered payload, or input that was never a token.
	// Callers treat entries that fail with it as unusable and skip them.
	ErrDecrypt = errors.New("decryption failed")
)

// Codec encrypts and decrypts opaque strings with a single process-wide key.
// Tokens are base64url with the nonce prepended: [nonce(12)] + [ciphertext].
type Codec struct {
	gcm cipher.AEAD
}

// NewCodec builds a codec from a base64-encoded 32-byte key.
func NewCodec(encodedKey string) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &Codec{gcm: gcm}, nil
}

// Encrypt encrypts plaintext and returns an opaque token.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends the encrypted+authenticated ciphertext to nonce
	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt recovers the plaintext from a token produced by Encrypt.
// All failure modes are wrapped in ErrDecrypt.
func (c *Codec) Decrypt(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < NonceSize {
		return "", fmt.Errorf("%w: token too short", ErrDecrypt)
	}

	nonce, data := raw[:NonceSize], raw[NonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plaintext), nil
}
