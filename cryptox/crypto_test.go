package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	keyB64, err := GenerateKey()
	require.NoError(t, err)
	key, err := DecodeKey(keyB64)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptBytes_RoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("some recorded audio bytes")

	encrypted, err := EncryptBytes(plaintext, key)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)
	// IV + tag overhead
	assert.Equal(t, len(plaintext)+32, len(encrypted))

	decrypted, err := DecryptBytes(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptBytes_WrongKeyFailsClosed(t *testing.T) {
	key := testKey(t)
	wrongKey := testKey(t)

	encrypted, err := EncryptBytes([]byte("secret"), key)
	require.NoError(t, err)

	decrypted, err := DecryptBytes(encrypted, wrongKey)
	assert.Error(t, err)
	assert.Nil(t, decrypted)
}

func TestDecryptBytes_TamperedCiphertext(t *testing.T) {
	key := testKey(t)

	encrypted, err := EncryptBytes([]byte("secret"), key)
	require.NoError(t, err)

	// Flip one ciphertext bit; the authentication tag must reject it
	encrypted[20] ^= 0x01
	_, err = DecryptBytes(encrypted, key)
	assert.Error(t, err)
}

func TestDecryptBytes_TooShort(t *testing.T) {
	key := testKey(t)
	_, err := DecryptBytes([]byte("short"), key)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestEncryptDecryptText_RoundTrip(t *testing.T) {
	key := testKey(t)

	encrypted, err := EncryptText("today I talked to my sister", key)
	require.NoError(t, err)

	decrypted, err := DecryptText(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, "today I talked to my sister", decrypted)
}

func TestDeriveLegacyKey_Deterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	key1, err := DeriveLegacyKey("master-secret", salt)
	require.NoError(t, err)
	key2, err := DeriveLegacyKey("master-secret", salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
	assert.Len(t, key1, KeySize)

	other, err := DeriveLegacyKey("other-secret", salt)
	require.NoError(t, err)
	assert.NotEqual(t, key1, other)
}

func TestDecodeKey_Invalid(t *testing.T) {
	_, err := DecodeKey("not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = DecodeKey("c2hvcnQ=") // valid base64, wrong length
	assert.ErrorIs(t, err, ErrInvalidKey)
}
