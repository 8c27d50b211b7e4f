package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/pkg/cryptox"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
	"github.com/aussiebroadwan/keycard/pkg/lockx"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "P@ss1")

	t.Run("valid credentials", func(t *testing.T) {
		res, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)
		require.NotEmpty(t, res.AccessToken)
		require.NotEmpty(t, res.RefreshToken)
		require.Equal(t, "alice", res.Username)
		require.Equal(t, "Test alice", res.Name)
		require.True(t, f.clock.Now().Add(15*time.Minute).Equal(res.ExpiresAt))

		claims, err := f.verifier.Verify(res.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Subject)
		require.Equal(t, []string{domain.RoleUser}, claims.Roles)
		require.NotEmpty(t, claims.ID)

		rec, err := f.store.RefreshTokens().GetRefreshToken(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, cryptox.FingerprintToken(res.RefreshToken), rec.TokenHash)
		require.True(t, f.clock.Now().Add(24*time.Hour).Equal(rec.ExpiresAt))
	})

	t.Run("email works as login name", func(t *testing.T) {
		res, err := f.tokens.Login(ctx, "alice@example.com", "P@ss1")
		require.NoError(t, err)
		require.Equal(t, "alice", res.Username)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, err := f.tokens.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		_, err = f.tokens.Login(ctx, "mallory", "P@ss1")
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		_, err = f.store.RefreshTokens().GetRefreshToken(ctx, "mallory")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("second login replaces the refresh token", func(t *testing.T) {
		first, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)
		second, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		_, err = f.tokens.Refresh(ctx, first.AccessToken, first.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = f.tokens.Refresh(ctx, second.AccessToken, second.RefreshToken)
		require.NoError(t, err)
	})
}

func TestLoginRolesRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.RegisterAdmin(ctx, domain.Registration{
		Name: "Root", Username: "root", Email: "root@example.com", Password: "s3cret",
	}, false)
	require.NoError(t, err)

	res, err := f.tokens.Login(ctx, "root", "s3cret")
	require.NoError(t, err)

	claims, err := f.verifier.Verify(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, []string{domain.RoleAdmin}, claims.Roles)
	require.True(t, claims.HasRole(domain.RoleAdmin))
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates and rejects replay", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice", "P@ss1")
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		pair, err := f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.NoError(t, err)
		require.NotEqual(t, login.RefreshToken, pair.RefreshToken)

		claims, err := f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Subject)
		require.Equal(t, []string{domain.RoleUser}, claims.Roles)

		_, err = f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = f.tokens.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("accepts an expired access token", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice", "P@ss1")
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		f.clock.Advance(20 * time.Minute)
		_, err = f.verifier.Verify(login.AccessToken)
		require.ErrorIs(t, err, jwtx.ErrExpired)

		pair, err := f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.NoError(t, err)
		require.True(t, f.clock.Now().Add(15*time.Minute).Equal(pair.ExpiresAt))

		_, err = f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
	})

	t.Run("keeps the session expiry", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice", "P@ss1")
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)
		sessionEnd := f.clock.Now().Add(24 * time.Hour)

		f.clock.Advance(time.Hour)
		pair, err := f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.NoError(t, err)

		rec, err := f.store.RefreshTokens().GetRefreshToken(ctx, "alice")
		require.NoError(t, err)
		require.True(t, sessionEnd.Equal(rec.ExpiresAt))

		f.clock.Advance(23 * time.Hour)
		_, err = f.tokens.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("roles are not re-read", func(t *testing.T) {
		f := newFixture(t)
		u := f.register(t, "alice", "P@ss1")
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		require.NoError(t, f.store.WithTx(ctx, func(tx store.Tx) error {
			r, err := f.users.Roles.EnsureRole(ctx, tx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			return tx.Users().AssignRole(ctx, u.ID, r.ID)
		}))

		pair, err := f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.NoError(t, err)

		claims, err := f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, []string{domain.RoleUser}, claims.Roles)
	})

	t.Run("rejections", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice", "P@ss1")
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		otherKey, err := jwtx.NewSigningKey([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		forged, err := jwtx.NewIssuer(otherKey, jwtx.IssuerConfig{
			Issuer: testIssuer, Audience: []string{testAudience},
		}).Issue(jwtx.NewAccessClaims("alice", []string{domain.RoleAdmin}))
		require.NoError(t, err)

		ghost, err := f.tokens.Issuer.Issue(jwtx.NewAccessClaims("ghost", nil))
		require.NoError(t, err)

		cases := map[string][2]string{
			"empty access token":        {"", login.RefreshToken},
			"empty refresh token":       {login.AccessToken, ""},
			"garbage access token":      {"not.a.jwt", login.RefreshToken},
			"foreign signing key":       {forged.Token, login.RefreshToken},
			"subject without a record":  {ghost.Token, login.RefreshToken},
			"refresh token mismatch":    {login.AccessToken, login.RefreshToken + "x"},
			"refresh token with spaces": {login.AccessToken, " " + login.RefreshToken},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := f.tokens.Refresh(ctx, tc[0], tc[1])
				require.ErrorIs(t, err, ErrInvalidRequest)
			})
		}

		// None of the rejections consumed the token.
		_, err = f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("expired refresh record", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice", "P@ss1")
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		f.clock.Advance(24 * time.Hour)
		_, err = f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestRefreshConcurrentRotationHasOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "P@ss1")
	login, err := f.tokens.Login(ctx, "alice", "P@ss1")
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrInvalidRequest)
	}
	require.Equal(t, 1, wins)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "P@ss1")

	t.Run("no record still succeeds", func(t *testing.T) {
		require.NoError(t, f.tokens.Revoke(ctx, "alice"))
		require.NoError(t, f.tokens.Revoke(ctx, "nobody"))
	})

	t.Run("idempotent and blocks refresh", func(t *testing.T) {
		login, err := f.tokens.Login(ctx, "alice", "P@ss1")
		require.NoError(t, err)

		require.NoError(t, f.tokens.Revoke(ctx, "alice"))
		require.NoError(t, f.tokens.Revoke(ctx, "alice"))

		rec, err := f.store.RefreshTokens().GetRefreshToken(ctx, "alice")
		require.NoError(t, err)
		require.True(t, rec.Cleared())

		_, err = f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("empty username", func(t *testing.T) {
		require.ErrorIs(t, f.tokens.Revoke(ctx, ""), ErrInvalidRequest)
	})
}

type brokenRefreshTokens struct {
	store.RefreshTokens
	err error
}

func (b brokenRefreshTokens) GetRefreshToken(context.Context, string) (domain.RefreshTokenRecord, error) {
	return domain.RefreshTokenRecord{}, b.err
}

func (b brokenRefreshTokens) UpsertRefreshToken(context.Context, domain.RefreshTokenRecord) error {
	return b.err
}

func (b brokenRefreshTokens) ClearRefreshToken(context.Context, string) error {
	return b.err
}

type brokenStore struct {
	store.Store
	err error
}

func (b brokenStore) RefreshTokens() store.RefreshTokens {
	return brokenRefreshTokens{RefreshTokens: b.Store.RefreshTokens(), err: b.err}
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "P@ss1")
	login, err := f.tokens.Login(ctx, "alice", "P@ss1")
	require.NoError(t, err)

	boom := errors.New("disk on fire")
	f.tokens.Store = brokenStore{Store: f.store, err: boom}

	_, err = f.tokens.Login(ctx, "alice", "P@ss1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, boom)

	_, err = f.tokens.Refresh(ctx, login.AccessToken, login.RefreshToken)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	require.ErrorIs(t, f.tokens.Revoke(ctx, "alice"), ErrStoreUnavailable)
}

func TestLockTimeoutIsUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tokens.locks = lockx.New()
	f.tokens.StoreTimeout = 20 * time.Millisecond

	unlock, err := f.tokens.locks.Lock(ctx, "alice")
	require.NoError(t, err)
	defer unlock()

	err = f.tokens.Revoke(ctx, "alice")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
