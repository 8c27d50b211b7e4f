package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/metrics"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/pkg/cryptox"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
	"github.com/aussiebroadwan/keycard/pkg/lockx"
	"github.com/aussiebroadwan/keycard/pkg/slogx"
)

// DefaultStoreTimeout bounds every store call and lock wait made by a
// credential operation.
const DefaultStoreTimeout = 5 * time.Second

// CredentialVerifier checks a username/password pair and returns the
// identity to embed in tokens. It returns ErrAuthenticationFailed for both
// unknown users and wrong passwords.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (domain.Identity, error)
}

// PrincipalExtractor recovers claims from a signed, possibly expired,
// access token.
type PrincipalExtractor interface {
	ExtractPrincipal(token string) (jwtx.Claims, error)
}

// TokenService runs login, refresh and revoke against the refresh record
// store. Work for one username is serialised in process by a keyed mutex
// and across processes by the store's compare-and-swap rotation.
type TokenService struct {
	Credentials CredentialVerifier
	Store       store.Store
	Issuer      *jwtx.Issuer
	Extractor   PrincipalExtractor
	Metrics     *metrics.Metrics

	RefreshTTL   time.Duration
	StoreTimeout time.Duration

	// Now is the clock used for refresh expiry. Defaults to time.Now.
	Now func() time.Time

	locksOnce sync.Once
	locks     *lockx.KeyedMutex
}

// Login verifies credentials, issues an access token and a fresh refresh
// token, and overwrites the user's refresh record.
func (s *TokenService) Login(ctx context.Context, username, password string) (domain.LoginResult, error) {
	l := slogx.FromContext(ctx)

	verifyCtx, cancel := context.WithTimeout(ctx, s.storeTimeout())
	ident, err := s.Credentials.VerifyCredentials(verifyCtx, username, password)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultRejected)
			return domain.LoginResult{}, ErrAuthenticationFailed
		}
		l.Error("credential check failed", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultError)
		return domain.LoginResult{}, unavailable(err)
	}

	unlock, err := s.lock(ctx, ident.Username)
	if err != nil {
		s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultError)
		return domain.LoginResult{}, err
	}
	defer unlock()

	access, err := s.Issuer.Issue(jwtx.NewAccessClaims(ident.Username, ident.Roles))
	if err != nil {
		l.Error("failed to sign access token", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultError)
		return domain.LoginResult{}, err
	}

	refresh, err := cryptox.GenerateRefreshToken()
	if err != nil {
		l.Error("failed to generate refresh token", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultError)
		return domain.LoginResult{}, err
	}

	rec := domain.RefreshTokenRecord{
		Username:  ident.Username,
		TokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt: s.now().Add(s.refreshTTL()),
	}
	err = s.storeCall(ctx, "upsert", func(ctx context.Context) error {
		return s.Store.RefreshTokens().UpsertRefreshToken(ctx, rec)
	})
	if err != nil {
		l.Error("failed to persist refresh token",
			slog.String("username", ident.Username),
			slog.Any("error", err),
		)
		s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultError)
		return domain.LoginResult{}, unavailable(err)
	}

	s.Metrics.ObserveOperation(metrics.OpLogin, metrics.ResultSuccess)
	return domain.LoginResult{
		TokenPair: domain.TokenPair{
			AccessToken:  access.Token,
			RefreshToken: refresh,
			ExpiresAt:    access.ExpiresAt,
		},
		Username: ident.Username,
		Name:     ident.Name,
	}, nil
}

// Refresh exchanges a (possibly expired) access token and the current
// refresh token for a new pair. Any mismatch yields ErrInvalidRequest so
// callers cannot tell an expired token from a stolen one.
//
// The new access token carries the same subject and roles as the old one;
// roles are not re-read. The stored refresh expiry is kept, so a session
// ends RefreshTTL after the login that started it.
func (s *TokenService) Refresh(ctx context.Context, accessToken, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	reject := func(reason string) (domain.TokenPair, error) {
		l.Info("refresh rejected", slog.String("reason", reason))
		s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultRejected)
		return domain.TokenPair{}, ErrInvalidRequest
	}

	if accessToken == "" || refreshToken == "" {
		return reject("missing token")
	}

	claims, err := s.Extractor.ExtractPrincipal(accessToken)
	if err != nil {
		return reject("access token: " + err.Error())
	}
	username := claims.Subject
	l = l.With(slog.String("username", username))

	unlock, err := s.lock(ctx, username)
	if err != nil {
		s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultError)
		return domain.TokenPair{}, err
	}
	defer unlock()

	var rec domain.RefreshTokenRecord
	err = s.storeCall(ctx, "get", func(ctx context.Context) error {
		var err error
		rec, err = s.Store.RefreshTokens().GetRefreshToken(ctx, username)
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return reject("no refresh record")
	case err != nil:
		l.Error("failed to load refresh record", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultError)
		return domain.TokenPair{}, unavailable(err)
	}

	if rec.Cleared() {
		return reject("refresh token cleared")
	}
	if !cryptox.FingerprintsEqual(rec.TokenHash, cryptox.FingerprintToken(refreshToken)) {
		return reject("refresh token mismatch")
	}
	if rec.Expired(s.now()) {
		return reject("refresh token expired")
	}

	access, err := s.Issuer.Issue(claims.Principal())
	if err != nil {
		l.Error("failed to sign access token", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultError)
		return domain.TokenPair{}, err
	}

	next, err := cryptox.GenerateRefreshToken()
	if err != nil {
		l.Error("failed to generate refresh token", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultError)
		return domain.TokenPair{}, err
	}

	rotated := domain.RefreshTokenRecord{
		Username:  rec.Username,
		TokenHash: cryptox.FingerprintToken(next),
		ExpiresAt: rec.ExpiresAt,
	}
	err = s.storeCall(ctx, "rotate", func(ctx context.Context) error {
		return s.Store.RefreshTokens().RotateRefreshToken(ctx, rec.TokenHash, rotated)
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		// Another replica rotated first.
		return reject("lost rotation race")
	case err != nil:
		l.Error("failed to rotate refresh token", slog.Any("error", err))
		s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultError)
		return domain.TokenPair{}, unavailable(err)
	}

	s.Metrics.ObserveOperation(metrics.OpRefresh, metrics.ResultSuccess)
	return domain.TokenPair{
		AccessToken:  access.Token,
		RefreshToken: next,
		ExpiresAt:    access.ExpiresAt,
	}, nil
}

// Revoke clears the refresh token of an already authenticated user.
// Revoking a user without a record, or twice in a row, succeeds.
func (s *TokenService) Revoke(ctx context.Context, username string) error {
	if username == "" {
		s.Metrics.ObserveOperation(metrics.OpRevoke, metrics.ResultRejected)
		return ErrInvalidRequest
	}

	unlock, err := s.lock(ctx, username)
	if err != nil {
		s.Metrics.ObserveOperation(metrics.OpRevoke, metrics.ResultError)
		return err
	}
	defer unlock()

	err = s.storeCall(ctx, "clear", func(ctx context.Context) error {
		return s.Store.RefreshTokens().ClearRefreshToken(ctx, username)
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to clear refresh token",
			slog.String("username", username),
			slog.Any("error", err),
		)
		s.Metrics.ObserveOperation(metrics.OpRevoke, metrics.ResultError)
		return unavailable(err)
	}

	s.Metrics.ObserveOperation(metrics.OpRevoke, metrics.ResultSuccess)
	return nil
}

// lock takes the per-username mutex, waiting at most StoreTimeout.
func (s *TokenService) lock(ctx context.Context, username string) (func(), error) {
	s.locksOnce.Do(func() {
		if s.locks == nil {
			s.locks = lockx.New()
		}
	})

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout())
	defer cancel()

	unlock, err := s.locks.Lock(ctx, username)
	if err != nil {
		return nil, unavailable(err)
	}
	return unlock, nil
}

func (s *TokenService) storeCall(ctx context.Context, call string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout())
	defer cancel()

	defer s.Metrics.ObserveStoreCall(call, time.Now())
	return fn(ctx)
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

func (s *TokenService) storeTimeout() time.Duration {
	if s.StoreTimeout > 0 {
		return s.StoreTimeout
	}
	return DefaultStoreTimeout
}
