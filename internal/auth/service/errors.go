package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/keycard/pkg/jwtx"
)

var (
	// ErrAuthenticationFailed covers both unknown users and wrong passwords.
	ErrAuthenticationFailed = errors.New("authentication_failed")

	// ErrInvalidRequest is the single rejection returned by Refresh.
	ErrInvalidRequest = errors.New("invalid_request")

	// ErrInvalidToken is returned when an access token does not verify.
	ErrInvalidToken = jwtx.ErrInvalidToken

	// ErrStoreUnavailable marks a persistence failure or timeout. Callers
	// may retry.
	ErrStoreUnavailable = errors.New("store_unavailable")

	// ErrUnknownUser is returned by Principal when no account matches.
	ErrUnknownUser = errors.New("unknown_user")

	ErrUserExists            = errors.New("user_exists")
	ErrInvalidRegistration   = errors.New("invalid_registration")
	ErrInvalidPassword       = errors.New("invalid_password")
	ErrBootstrapUnauthorized = errors.New("admin registration requires an admin")
)

// unavailable wraps a raw store error. Not-found and conflict are expected
// outcomes and must be handled before calling it.
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
