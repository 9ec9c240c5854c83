package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ars-patel/TaskHub-Backend/utils"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := utils.HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, utils.CheckPassword(hashed, "s3cret-pass"))
	assert.False(t, utils.CheckPassword(hashed, "wrong-pass"))
}

func TestHashPassword_SaltedPerHash(t *testing.T) {
	first, err := utils.HashPassword("same-password")
	assert.NoError(t, err)
	second, err := utils.HashPassword("same-password")
	assert.NoError(t, err)

	// bcrypt embeds a random salt, so two hashes of the same input differ.
	assert.NotEqual(t, first, second)
}

func TestGenerateInviteToken(t *testing.T) {
	token, err := utils.GenerateInviteToken()
	assert.NoError(t, err)
	assert.Len(t, token, 24)
	assert.Regexp(t, "^[0-9a-f]{24}$", token)
}

func TestGenerateInviteToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := utils.GenerateInviteToken()
		assert.NoError(t, err)
		assert.False(t, seen[token], "duplicate invite token generated")
		seen[token] = true
	}
}
