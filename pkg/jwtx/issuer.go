package jwtx

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed access token and the instant it stops being valid.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// IssuerConfig describes the registered claims stamped on every token.
type IssuerConfig struct {
	Issuer   string
	Audience []string
	TTL      time.Duration

	// Now is the clock used for iat/nbf/exp. Defaults to time.Now.
	Now func() time.Time
}

// Issuer turns principal claims into signed access tokens.
type Issuer struct {
	signer   Signer
	issuer   string
	audience []string
	ttl      time.Duration
	now      func() time.Time
}

func NewIssuer(signer Signer, cfg IssuerConfig) *Issuer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		signer:   signer,
		issuer:   cfg.Issuer,
		audience: slices.Clone(cfg.Audience),
		ttl:      ttl,
		now:      now,
	}
}

// TTL returns the access token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue stamps iss, aud, iat, nbf and exp onto the claims and signs them.
// Subject, jti and roles are kept as supplied.
func (i *Issuer) Issue(c Claims) (AccessToken, error) {
	if c.Subject == "" {
		return AccessToken{}, errors.New("jwtx: claims without subject")
	}
	if c.ID == "" {
		c.ID = NewJTI()
	}

	now := i.now().UTC().Truncate(time.Second)
	exp := now.Add(i.ttl)

	c.Issuer = i.issuer
	c.Audience = jwt.ClaimStrings(slices.Clone(i.audience))
	c.IssuedAt = jwt.NewNumericDate(now)
	c.NotBefore = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(exp)

	s, err := i.signer.Sign(c)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: s, ExpiresAt: exp}, nil
}
