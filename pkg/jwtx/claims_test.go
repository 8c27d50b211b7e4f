package jwtx_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/aussiebroadwan/keycard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	roles := []string{"User", "Admin"}
	c := jwtx.NewAccessClaims("alice", roles)

	require.Equal(t, "alice", c.Subject)
	require.Equal(t, "alice", c.Name)
	require.Equal(t, []string{"User", "Admin"}, c.Roles)
	require.NotEmpty(t, c.ID)
	require.Nil(t, c.ExpiresAt)

	// Role slice is copied, not aliased
	roles[0] = "Mutated"
	require.Equal(t, "User", c.Roles[0])

	t.Run("no roles", func(t *testing.T) {
		c := jwtx.NewAccessClaims("bob", nil)
		require.Empty(t, c.Roles)
		require.False(t, c.HasRole("User"))
	})
}

func TestNewJTI(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := jwtx.NewJTI()
		raw, err := base64.RawURLEncoding.DecodeString(id)
		require.NoError(t, err)
		require.Len(t, raw, 16)

		_, dup := seen[id]
		require.False(t, dup, "duplicate jti %q", id)
		seen[id] = struct{}{}
	}
}

func TestPrincipal(t *testing.T) {
	orig := jwtx.NewAccessClaims("alice", []string{"User"})
	orig.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	p := orig.Principal()
	require.Equal(t, orig.Subject, p.Subject)
	require.Equal(t, orig.Roles, p.Roles)
	require.NotEqual(t, orig.ID, p.ID)
	require.Nil(t, p.ExpiresAt)
	require.True(t, p.HasRole("User"))
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "keycard-auth",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("keycard-auth"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("someone-else")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: []string{"api", "admin"},
		},
	}

	t.Run("contains match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"api"}))
	})

	t.Run("multiple match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"foo", "admin"}))
	})

	t.Run("no match", func(t *testing.T) {
		err := c.ValidateAudience([]string{"billing"})
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("empty expected list", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience(nil))
	})
}
