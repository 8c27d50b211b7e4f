package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the login/refresh flow.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// jtiSize is the number of random bytes in a "jti" claim (128 bits).
const jtiSize = 16

// Claims are the access-token claims. The subject name is carried in both
// "sub" and "name" so downstream services can use either.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the authenticated subject's name (same value as sub).
	Name string `json:"name,omitempty"`

	// Roles holds one entry per role granted to the subject, in the order
	// the identity store returned them.
	Roles []string `json:"roles,omitempty"`
}

// NewAccessClaims builds the principal part of an access token: subject,
// a fresh jti and the role set. Issuer, audience and timestamps are stamped
// by the Issuer at signing time.
func NewAccessClaims(subject string, roles []string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
			ID:      NewJTI(),
		},
		Name:  subject,
		Roles: slices.Clone(roles),
	}
}

// Principal returns a copy of the subject and roles with a fresh jti and no
// registered timestamps, ready to be re-issued.
func (c Claims) Principal() Claims {
	return NewAccessClaims(c.Subject, c.Roles)
}

// HasRole reports whether the claims carry the given role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [jtiSize]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}
