// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
)

func newTokenService(t *testing.T, ttl time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("unit-test-secret", "petclinic.test", ttl)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_Config verifies construction guards: empty secrets and
non-positive TTLs are rejected.
*/
func TestNewTokenService_Config(t *testing.T) {
	_, err := sec.NewTokenService("", "petclinic.test", time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("secret", "petclinic.test", 0)
	assert.Error(t, err)

	_, err = sec.NewTokenService("secret", "petclinic.test", -time.Minute)
	assert.Error(t, err)
}

/*
TestTokenService_RoundTrip verifies that a freshly issued token validates and
projects the email subject and role claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, time.Hour)

	token, err := service.IssueToken("owner@clinic.test", sec.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@clinic.test", claims.Email())
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "petclinic.test", claims.Issuer)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)

	subject, err := service.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@clinic.test", subject)

	role, err := service.ExtractRole(token)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, role)
}

/*
TestTokenService_Expired verifies that an elapsed token fails with the
EXPIRED_TOKEN kind, distinguishable from tampering.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTokenService(t, time.Millisecond)

	token, err := service.IssueToken("owner@clinic.test", sec.RoleUser)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "EXPIRED_TOKEN"))
	assert.False(t, apperr.HasCode(err, "TAMPERED_TOKEN"))
}

/*
TestTokenService_Tampered verifies that any byte flip or foreign signature
fails with the TAMPERED_TOKEN kind.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTokenService(t, time.Hour)

	token, err := service.IssueToken("owner@clinic.test", sec.RoleUser)
	require.NoError(t, err)

	// 1. Flip a byte inside the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	mutated := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = service.VerifyToken(mutated)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "TAMPERED_TOKEN"))

	// 2. Token signed with a different secret
	foreign, err := sec.NewTokenService("other-secret", "petclinic.test", time.Hour)
	require.NoError(t, err)
	foreignToken, err := foreign.IssueToken("owner@clinic.test", sec.RoleUser)
	require.NoError(t, err)

	_, err = service.VerifyToken(foreignToken)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "TAMPERED_TOKEN"))

	// 3. Garbage input
	_, err = service.VerifyToken("definitely.not.a-token")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "TAMPERED_TOKEN"))
}
