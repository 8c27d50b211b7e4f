package domain

import "time"

// TokenPair is what a refresh returns: a new access token and the rotated
// refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry
}

// LoginResult is a TokenPair plus the identity it was issued for.
type LoginResult struct {
	TokenPair

	Username string
	Name     string
}

// RefreshTokenRecord is the single refresh credential kept per username.
// TokenHash is the fingerprint of the opaque token; empty means the token
// was cleared (revoked or expired by housekeeping) while the row is kept.
type RefreshTokenRecord struct {
	Username  string
	TokenHash string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// Cleared reports whether the record holds no token.
func (r RefreshTokenRecord) Cleared() bool { return r.TokenHash == "" }

// Expired reports whether the token is past its expiry at now. A token
// expiring exactly at now counts as expired.
func (r RefreshTokenRecord) Expired(now time.Time) bool { return !now.Before(r.ExpiresAt) }
