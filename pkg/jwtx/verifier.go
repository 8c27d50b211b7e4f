package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	// ErrInvalidToken wraps every verification failure below.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// VerifyOptions captures the expectations checked on every token.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience value the token must contain (claims.aud). Empty means "don't care".
	Audience string

	// Now is the clock used for exp/nbf. Defaults to time.Now.
	Now func() time.Time
}

// HS256Verifier validates tokens signed with a SigningKey. There is no
// clock-skew leeway.
type HS256Verifier struct {
	key      *SigningKey
	issuer   string
	audience string
	now      func() time.Time
}

func NewVerifierHS256(key *SigningKey, opts VerifyOptions) *HS256Verifier {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HS256Verifier{key: key, issuer: opts.Issuer, audience: opts.Audience, now: now}
}

// Verify performs full validation: algorithm, signature, issuer, audience,
// exp and nbf.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims, err := v.parse(tokenStr, opts...)
	if err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, invalid(ErrInvalidClaim)
	}
	return claims, nil
}

// ExtractPrincipal recovers the claims of a token that may already be
// expired. Algorithm, signature, issuer and audience are still enforced;
// only the time-based claims are skipped.
func (v *HS256Verifier) ExtractPrincipal(tokenStr string) (Claims, error) {
	claims, err := v.parse(tokenStr,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, invalid(err)
	}
	if v.audience != "" {
		if err := claims.ValidateAudience([]string{v.audience}); err != nil {
			return Claims{}, invalid(err)
		}
	}
	if claims.Subject == "" {
		return Claims{}, invalid(ErrInvalidClaim)
	}
	return claims, nil
}

func (v *HS256Verifier) parse(tokenStr string, opts ...jwt.ParserOption) (Claims, error) {
	parser := jwt.NewParser(opts...)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, v.key.keyFunc)
	if err != nil {
		return Claims{}, invalid(mapParseError(token, err))
	}
	if !token.Valid {
		return Claims{}, invalid(ErrInvalidClaim)
	}
	return claims, nil
}

// mapParseError folds jwt library errors into the jwtx sentinels.
func mapParseError(token *jwt.Token, err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		// WithValidMethods reports a foreign alg as a signature failure.
		if token != nil && token.Method != nil && token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return ErrAlgMismatch
		}
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudience
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrInvalidClaim
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, cause)
}
