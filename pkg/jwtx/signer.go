package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretSize is the smallest HMAC secret accepted, in bytes (256 bits).
const MinSecretSize = 32

// ErrWeakKey is returned when the configured signing secret is too short.
var ErrWeakKey = errors.New("jwtx: signing secret shorter than 256 bits")

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// SigningKey is the process-wide symmetric key used to sign and verify
// access tokens with HS256. It is immutable after construction.
type SigningKey struct {
	secret []byte
}

// NewSigningKey validates and copies the secret. A secret shorter than
// MinSecretSize is rejected with ErrWeakKey.
func NewSigningKey(secret []byte) (*SigningKey, error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrWeakKey, len(secret), MinSecretSize)
	}

	cp := make([]byte, len(secret))
	copy(cp, secret)
	return &SigningKey{secret: cp}, nil
}

func (k *SigningKey) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign serialises the claims as a compact HS256 JWS.
func (k *SigningKey) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := tok.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return s, nil
}

// keyFunc hands the secret to the parser only for HS256 tokens.
func (k *SigningKey) keyFunc(t *jwt.Token) (any, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, ErrAlgMismatch
	}
	return k.secret, nil
}
