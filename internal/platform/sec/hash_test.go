// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hash validates its own password
and rejects any other.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("sekret")
	require.NoError(t, err)

	assert.NotEqual(t, "sekret", hash)
	assert.True(t, sec.CheckPasswordHash("sekret", hash))
	assert.False(t, sec.CheckPasswordHash("Sekret", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_Salted verifies that hashing the same password twice yields
different digests (per-hash salt).
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("sekret")
	require.NoError(t, err)
	second, err := sec.HashPassword("sekret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both still verify
	assert.True(t, sec.CheckPasswordHash("sekret", first))
	assert.True(t, sec.CheckPasswordHash("sekret", second))
}

/*
TestCheckPasswordHash_MalformedHash verifies that a corrupted stored hash
reports false instead of panicking.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("sekret", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("sekret", ""))
}
