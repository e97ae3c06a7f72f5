package config_test

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "01234567890123456789012345678901"

func TestInitCrypto(t *testing.T) {
	t.Run("ShortKeyPanics", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", "short-key")
		assert.Panics(t, config.InitCrypto)
	})

	t.Run("ValidKey", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", testKey)
		assert.NotPanics(t, config.InitCrypto)
	})
}

func TestEncryptDecrypt(t *testing.T) {
	os.Setenv("CRYPTO_KEY", testKey)
	config.InitCrypto()

	t.Run("SimpleText", func(t *testing.T) {
		plaintext := "biology_5_intermediate"

		ciphertext, err := config.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := config.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)

		ciphertext2, err := config.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, ciphertext, ciphertext2, "nonce must make ciphertexts differ")
	})

	t.Run("EmptyText", func(t *testing.T) {
		ciphertext, err := config.Encrypt("")
		require.NoError(t, err)
		decrypted, err := config.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})

	t.Run("TamperedCiphertext", func(t *testing.T) {
		ciphertext, err := config.Encrypt("payload")
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xFF

		_, err = config.Decrypt(base64.RawURLEncoding.EncodeToString(raw))
		assert.Error(t, err)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := config.Decrypt("AAAA")
		assert.ErrorIs(t, err, config.ErrCiphertextTooShort)
	})
}
