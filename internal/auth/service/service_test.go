package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/metrics"
	"github.com/aussiebroadwan/keycard/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/keycard/pkg/cryptox"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "keycard-test"
	testAudience = "keycard-api"
)

var cheapParams = cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	users    *UserService
	tokens   *TokenService
	verifier *jwtx.HS256Verifier
	clock    *testClock
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	key, err := jwtx.NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	clock := &testClock{t: time.Now().UTC().Truncate(time.Second)}
	m := metrics.New()

	users := &UserService{
		Store:  s,
		Hasher: cryptox.NewPasswordHasher(nil, cheapParams),
		Roles:  &RolesService{Store: s},
	}
	tokens := &TokenService{
		Credentials: users,
		Store:       s,
		Issuer: jwtx.NewIssuer(key, jwtx.IssuerConfig{
			Issuer:   testIssuer,
			Audience: []string{testAudience},
			TTL:      jwtx.DefaultAccessTokenTTL,
			Now:      clock.Now,
		}),
		Extractor: jwtx.NewVerifierHS256(key, jwtx.VerifyOptions{Issuer: testIssuer, Audience: testAudience}),
		Metrics:   m,
		Now:       clock.Now,
	}

	return &fixture{
		store:    s,
		users:    users,
		tokens:   tokens,
		verifier: jwtx.NewVerifierHS256(key, jwtx.VerifyOptions{Issuer: testIssuer, Audience: testAudience, Now: clock.Now}),
		clock:    clock,
		metrics:  m,
	}
}

func (f *fixture) register(t *testing.T, username, password string) domain.User {
	t.Helper()

	u, err := f.users.Register(context.Background(), domain.Registration{
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return u
}
