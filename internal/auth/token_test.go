package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() Claims {
	return Claims{
		UserID: "5f2d1a3e-0000-4000-8000-000000000001",
		Email:  "admin@example.com",
		Roles: []RoleClaim{
			{
				ID:   "5f2d1a3e-0000-4000-8000-000000000002",
				Name: "Admin",
				Permissions: []PermissionClaim{
					{ID: "5f2d1a3e-0000-4000-8000-000000000003", Name: "manage_users"},
				},
			},
		},
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec("", DefaultTokenTTL)
	assert.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret", DefaultTokenTTL)
	require.NoError(t, err)

	now := time.Now()
	token, err := codec.Issue(testClaims(), now)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := codec.Verify(token, now)
	require.NoError(t, err)
	assert.Equal(t, "5f2d1a3e-0000-4000-8000-000000000001", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	require.Len(t, claims.Roles, 1)
	assert.Equal(t, "Admin", claims.Roles[0].Name)
	require.Len(t, claims.Roles[0].Permissions, 1)
	assert.Equal(t, "manage_users", claims.Roles[0].Permissions[0].Name)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestVerifyExpired(t *testing.T) {
	codec, err := NewCodec("test-secret", DefaultTokenTTL)
	require.NoError(t, err)

	issued := time.Now()
	token, err := codec.Issue(testClaims(), issued)
	require.NoError(t, err)

	// Still valid at the boundary window, expired one second past it.
	_, err = codec.Verify(token, issued.Add(23*time.Hour))
	assert.NoError(t, err)

	_, err = codec.Verify(token, issued.Add(24*time.Hour+time.Second))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	codec, err := NewCodec("test-secret", DefaultTokenTTL)
	require.NoError(t, err)

	now := time.Now()
	token, err := codec.Issue(testClaims(), now)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[10] == 'A' {
		sig[10] = 'B'
	} else {
		sig[10] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := codec.Verify(tampered, now)
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.Nil(t, claims) // never partially decodes
}

func TestVerifyWrongSecret(t *testing.T) {
	codec, err := NewCodec("test-secret", DefaultTokenTTL)
	require.NoError(t, err)
	other, err := NewCodec("other-secret", DefaultTokenTTL)
	require.NoError(t, err)

	now := time.Now()
	token, err := codec.Issue(testClaims(), now)
	require.NoError(t, err)

	_, err = other.Verify(token, now)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyMalformed(t *testing.T) {
	codec, err := NewCodec("test-secret", DefaultTokenTTL)
	require.NoError(t, err)
	now := time.Now()

	for _, token := range []string{"", "garbage", "a.b.c", "only.two"} {
		_, err := codec.Verify(token, now)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}

	// Structurally valid JWT with an empty subject is rejected at the boundary.
	empty := Claims{Email: "nobody@example.com"}
	token, err := codec.Issue(empty, now)
	require.NoError(t, err)
	_, err = codec.Verify(token, now)
	assert.ErrorIs(t, err, ErrMalformed)
}
