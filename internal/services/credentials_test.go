package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordFormat(t *testing.T) {
	stored, err := HashPassword("correct horse")
	require.NoError(t, err)

	parts := strings.Split(stored, ".")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], pbkdf2KeyLength*2)
	assert.Len(t, parts[1], saltLength*2)
}

func TestHashPasswordSalts(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct horse", stored))
	assert.False(t, VerifyPassword("Correct horse", stored))
	assert.False(t, VerifyPassword("", stored))
}

func TestVerifyPasswordMalformed(t *testing.T) {
	for _, stored := range []string{"", "nodot", ".salt", "hash.", "a.b.c"} {
		assert.False(t, VerifyPassword("anything", stored), stored)
	}
}

func TestDeriveUsesSaltText(t *testing.T) {
	// Known vector: the hex salt string is fed to PBKDF2 as bytes
	salt := "00112233445566778899aabbccddeeff"
	stored := derive("pw", salt) + "." + salt
	assert.True(t, VerifyPassword("pw", stored))
	assert.Equal(t, derive("pw", salt), derive("pw", salt))
}
