package crypto_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/crypto"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	codec, err := crypto.NewCodec(testKey(t))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	plaintext := "I love hiking in the mountains"
	token, err := codec.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if token == plaintext {
		t.Fatal("token should not equal plaintext")
	}

	recovered, err := codec.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if recovered != plaintext {
		t.Errorf("recovered %q, want %q", recovered, plaintext)
	}
}

func TestEncrypt_NondeterministicTokens(t *testing.T) {
	codec, err := crypto.NewCodec(testKey(t))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	a, err := codec.Encrypt("same input")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := codec.Encrypt("same input")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical tokens")
	}
}

func TestDecrypt_RejectsGarbage(t *testing.T) {
	codec, err := crypto.NewCodec(testKey(t))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	cases := []string{
		"",
		"not a token",
		"dG9vc2hvcnQ",
		"%%%",
	}
	for _, in := range cases {
		if _, err := codec.Decrypt(in); !errors.Is(err, crypto.ErrDecrypt) {
			t.Errorf("Decrypt(%q) error = %v, want ErrDecrypt", in, err)
		}
	}
}

func TestDecrypt_RejectsForeignKey(t *testing.T) {
	codec, err := crypto.NewCodec(testKey(t))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	otherKey := make([]byte, crypto.KeySize)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	other, err := crypto.NewCodec(base64.StdEncoding.EncodeToString(otherKey))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := other.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := codec.Decrypt(token); !errors.Is(err, crypto.ErrDecrypt) {
		t.Errorf("Decrypt with wrong key error = %v, want ErrDecrypt", err)
	}
}

func TestNewCodec_RejectsBadKeys(t *testing.T) {
	if _, err := crypto.NewCodec("not base64!!"); err == nil {
		t.Error("NewCodec accepted a non-base64 key")
	}
	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	if _, err := crypto.NewCodec(short); !errors.Is(err, crypto.ErrInvalidKeySize) {
		t.Errorf("NewCodec(short key) error = %v, want ErrInvalidKeySize", err)
	}
}
