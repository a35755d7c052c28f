package convert

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// SecretPrefix marks encrypted string leaves: "enc:" + base64(nonce|ciphertext).
const SecretPrefix = "enc:"

// ErrDecrypt is returned when no key opens a secret.
var ErrDecrypt = errors.New("decryption failed with all available keys")

// Keys holds the keys for encryption and decryption.
type Keys struct {
	// Active is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	Active []byte

	// Fallback keys are tried when the active one fails.
	// This enables zero-downtime key rotation.
	Fallback [][]byte
}

// Validate checks every key is a valid AES-256 key.
func (k Keys) Validate() error {
	if len(k.Active) != 32 {
		return fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(k.Active))
	}
	for i, f := range k.Fallback {
		if len(f) != 32 {
			return fmt.Errorf("fallback key %d must be 32 bytes (AES-256), got %d", i, len(f))
		}
	}
	return nil
}

// Decrypt returns a converter opening "enc:" string leaves with AES-GCM.
// Other values pass through unchanged.
func Decrypt(keys Keys) (ports.Converter, error) {
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	return func(_ context.Context, v any, key string, _ *domain.Node) (any, error) {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		encoded, ok := strings.CutPrefix(s, SecretPrefix)
		if !ok {
			return v, nil
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("secret %q: invalid base64: %w", key, err)
		}
		plain, err := decryptWithRotation(ciphertext, keys)
		if err != nil {
			return nil, fmt.Errorf("secret %q: %w", key, err)
		}
		return string(plain), nil
	}, nil
}

// Encrypt seals plaintext with keys.Active and returns the "enc:" form
// Decrypt understands.
func Encrypt(keys Keys, plaintext string) (string, error) {
	if err := keys.Validate(); err != nil {
		return "", err
	}
	gcm, err := newGCM(keys.Active)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return SecretPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func decryptWithRotation(ciphertext []byte, keys Keys) ([]byte, error) {
	if plain, err := decrypt(ciphertext, keys.Active); err == nil {
		return plain, nil
	}
	for _, key := range keys.Fallback {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecrypt
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
