package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("secret1")

	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, "secret1", digest)

	// Hashing is salted, so two digests of the same input differ.
	other, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, digest, other)
}

func TestCheckPassword(t *testing.T) {
	digest, err := HashPassword("secret1")
	assert.NoError(t, err)

	assert.True(t, CheckPassword("secret1", digest))
	assert.False(t, CheckPassword("wrong-password", digest))
	assert.False(t, CheckPassword("secret1", "not-a-bcrypt-digest"))
}
