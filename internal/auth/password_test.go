package auth_test

import (
	"testing"

	"github.com/nuturl/nuturl/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	t.Run("verifies the original password", func(t *testing.T) {
		salt, hash, err := auth.HashPassword("s3cret!")

		require.NoError(t, err)
		assert.True(t, auth.VerifyPassword("s3cret!", salt, hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		salt, hash, err := auth.HashPassword("s3cret!")

		require.NoError(t, err)
		assert.False(t, auth.VerifyPassword("not-it", salt, hash))
	})

	t.Run("salts are unique per hash", func(t *testing.T) {
		salt1, hash1, err := auth.HashPassword("same-password")
		require.NoError(t, err)

		salt2, hash2, err := auth.HashPassword("same-password")
		require.NoError(t, err)

		assert.NotEqual(t, salt1, salt2)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects corrupted salt", func(t *testing.T) {
		_, hash, err := auth.HashPassword("s3cret!")

		require.NoError(t, err)
		assert.False(t, auth.VerifyPassword("s3cret!", "zz-not-hex", hash))
	})
}
