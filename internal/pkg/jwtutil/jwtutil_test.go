package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	identity := Identity{ID: "user-1", Email: "ada@example.com"}
	tok, issued, err := GenerateToken(secret, 30*24*time.Hour, identity)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity())
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAtTime(), 5*time.Second)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	claims := NewClaims(Identity{ID: "u1", Email: "u1@example.com"}, time.Now().Add(-2*time.Hour), time.Hour)
	tok, err := Sign(secret, claims)
	require.NoError(t, err)

	_, err = ParseToken(secret, tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken("another-secret-another-secret-xx", time.Hour, Identity{ID: "u2"})
	require.NoError(t, err)

	_, err = ParseToken(secret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := NewClaims(Identity{ID: "u3"}, time.Now(), time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(secret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ParseToken(secret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
