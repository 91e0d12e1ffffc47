// Package cryptox implements the AES-256-GCM scheme used for user audio
// blobs, transcripts and summaries. The wire format is
// [IV (16 bytes)] + [ciphertext] + [tag (16 bytes)], shared with the
// uploading clients.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// ivSize matches the 16-byte IV the clients generate.
	ivSize  = 16
	tagSize = 16

	pbkdf2Iterations = 100000
)

var (
	ErrInvalidKey         = errors.New("invalid encryption key")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// GenerateKey returns a fresh random AES-256 key, base64-encoded for storage.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// GenerateSalt returns a random 32-byte salt, base64-encoded.
func GenerateSalt() (string, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DeriveLegacyKey derives the key for records written under the old
// password-based scheme: PBKDF2-SHA256 over the service master secret with
// the account's stored salt.
func DeriveLegacyKey(masterSecret string, saltB64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("decode key salt: %w", err)
	}
	return pbkdf2.Key([]byte(masterSecret), salt, pbkdf2Iterations, KeySize, sha256.New), nil
}

// DecodeKey decodes a base64 key and checks its length.
func DecodeKey(keyB64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// EncryptBytes encrypts data with AES-256-GCM. A random 16-byte IV is
// generated per call and prepended to the output; the 16-byte tag trails it.
func EncryptBytes(data []byte, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	// Seal appends ciphertext+tag after the IV
	return aesgcm.Seal(iv, iv, data, nil), nil
}

// DecryptBytes reverses EncryptBytes. Authentication failure (wrong key,
// corrupt or tampered ciphertext) returns an error; it never yields garbled
// plaintext.
func DecryptBytes(encrypted []byte, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(encrypted) < ivSize+tagSize {
		return nil, ErrCiphertextTooShort
	}

	iv := encrypted[:ivSize]
	return aesgcm.Open(nil, iv, encrypted[ivSize:], nil)
}

// EncryptText encrypts a UTF-8 string and returns the result base64-encoded,
// the form stored in document collections.
func EncryptText(plaintext string, key []byte) (string, error) {
	encrypted, err := EncryptBytes([]byte(plaintext), key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// DecryptText reverses EncryptText.
func DecryptText(encryptedB64 string, key []byte) (string, error) {
	encrypted, err := base64.StdEncoding.DecodeString(encryptedB64)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	plaintext, err := DecryptBytes(encrypted, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, ivSize)
}
