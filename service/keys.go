package service

import (
	"errors"

	"panzoto-backend/cryptox"
	"panzoto-backend/models"
)

// sealUserText encrypts text with the account's managed key
func sealUserText(user *models.User, plaintext string) (string, error) {
	key, err := cryptox.DecodeKey(user.EncryptionKey)
	if err != nil {
		return "", err
	}
	return cryptox.EncryptText(plaintext, key)
}

// openUserText decrypts a stored ciphertext with the account's managed key,
// falling back to the legacy derived key for records written under the old
// password scheme.
func openUserText(user *models.User, encrypted, masterSecret string) (string, error) {
	key, err := cryptox.DecodeKey(user.EncryptionKey)
	if err == nil {
		if text, err := cryptox.DecryptText(encrypted, key); err == nil {
			return text, nil
		}
	}

	if masterSecret == "" {
		return "", errors.New("no key opens this record")
	}
	legacyKey, err := cryptox.DeriveLegacyKey(masterSecret, user.KeySalt)
	if err != nil {
		return "", err
	}
	return cryptox.DecryptText(encrypted, legacyKey)
}
