// Copyright (c) 2026 SMRT Labs. All rights reserved.

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/platform/sec"
)

/*
TestHashPassword_Format verifies the stored "<saltHex>:<derivedKeyHex>" shape.
*/
func TestHashPassword_Format(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	salt, key, found := strings.Cut(hash, ":")
	require.True(t, found)

	// 16-byte salt and 64-byte derived key, both hex encoded
	assert.Len(t, salt, 32)
	assert.Len(t, key, 128)
}

/*
TestCheckPasswordHash covers the verification round trip and failure modes.
*/
func TestCheckPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("pw-123456")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("pw-123456", hash))
	assert.False(t, sec.CheckPasswordHash("pw-1234567", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
	assert.False(t, sec.CheckPasswordHash("pw-123456", "not-a-stored-hash"))
	assert.False(t, sec.CheckPasswordHash("pw-123456", "aabb:zz-not-hex"))
}

/*
TestHashPassword_UniqueSalts verifies that two hashes of the same password differ.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("same-password")
	require.NoError(t, err)
	second, err := sec.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("same-password", first))
	assert.True(t, sec.CheckPasswordHash("same-password", second))
}

/*
TestGenerateAPISecret verifies the "sk_" + 48 hex chars format and uniqueness.
*/
func TestGenerateAPISecret(t *testing.T) {
	secret, err := sec.GenerateAPISecret()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(secret, sec.APISecretPrefix))
	assert.Len(t, secret, len(sec.APISecretPrefix)+48)

	other, err := sec.GenerateAPISecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

/*
TestCheckAPISecretHash covers digest comparison for the CLI validation path.
*/
func TestCheckAPISecretHash(t *testing.T) {
	secret, err := sec.GenerateAPISecret()
	require.NoError(t, err)

	stored := sec.HashAPISecret(secret)
	assert.Len(t, stored, 64)

	assert.True(t, sec.CheckAPISecretHash(secret, stored))
	assert.False(t, sec.CheckAPISecretHash(secret+"x", stored))
	assert.False(t, sec.CheckAPISecretHash("", stored))
}
