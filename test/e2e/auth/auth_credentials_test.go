package auth_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	ready, err := client.GetReadiness(t.Context())
	assertHealthy(t, ready, err)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Store)
}

// TestCredentialLifecycle walks login, refresh, replay and revoke against a
// running container.
func TestCredentialLifecycle(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))
	ctx := t.Context()
	registerUser(t, client, "alice")

	login, err := client.Login(ctx, "alice", testPass)
	require.NoError(t, err)
	require.Equal(t, authsdk.StatusSuccess, login.StatusCode)
	require.Equal(t, "Logged in", login.Message)
	require.Equal(t, "alice", login.Username)
	require.NotNil(t, login.Expiration)

	// Access TTL is 2s in the container; wait it out so refresh has to
	// accept an expired token.
	time.Sleep(3 * time.Second)

	pair, err := client.Refresh(ctx, login.Token, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	_, err = client.Refresh(ctx, login.Token, login.RefreshToken)
	assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)

	session := client.NewSessionFromTokens(pair.AccessToken, pair.RefreshToken, time.Now().Add(time.Minute))
	require.NoError(t, session.Revoke(ctx))

	_, err = client.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
	assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))
	registerUser(t, client, "bob")

	wrongPass, err := client.Login(t.Context(), "bob", "nope")
	require.NoError(t, err)
	unknown, err := client.Login(t.Context(), "nobody", testPass)
	require.NoError(t, err)

	require.Equal(t, *wrongPass, *unknown)
	require.Equal(t, authsdk.StatusFailed, wrongPass.StatusCode)
	require.Equal(t, "Invalid Username or Password", wrongPass.Message)
	require.Nil(t, wrongPass.Expiration)
}

func TestSessionAutoRefresh(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))
	registerUser(t, client, "carol")

	session, err := client.AuthenticateWithPassword(t.Context(), "carol", testPass)
	require.NoError(t, err)
	first := session.RefreshToken()

	// The 2s access token sits inside the refresh buffer, so every call
	// rotates the pair first.
	me, err := session.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, "carol", me.Username)
	require.Equal(t, []string{"User"}, me.Roles)
	require.NotEqual(t, first, session.RefreshToken())
}

// TestConcurrentRefreshHasOneWinner races the same pair against itself.
func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))
	registerUser(t, client, "dave")

	login, err := client.Login(t.Context(), "dave", testPass)
	require.NoError(t, err)

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Refresh(t.Context(), login.Token, login.RefreshToken); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
}

func TestAdminBootstrapAndGuard(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))
	ctx := t.Context()

	st, err := client.RegisterFirstAdmin(ctx, authsdk.RegistrationRequest{
		Name: "Root", Username: "root", Email: "root@example.com", Password: testPass,
	})
	require.NoError(t, err)
	require.True(t, st.OK())

	_, err = client.RegisterFirstAdmin(ctx, authsdk.RegistrationRequest{
		Name: "Eve", Username: "eve", Email: "eve@example.com", Password: testPass,
	})
	assertAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeForbidden)

	admin, err := client.AuthenticateWithPassword(ctx, "root", testPass)
	require.NoError(t, err)
	data, err := admin.AdminData(ctx)
	require.NoError(t, err)
	require.Equal(t, "Data from admin controller", data)

	registerUser(t, client, "frank")
	user, err := client.AuthenticateWithPassword(ctx, "frank", testPass)
	require.NoError(t, err)
	_, err = user.AdminData(ctx)
	assertAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeForbidden)
}

func TestChangePassword(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t))
	ctx := t.Context()
	registerUser(t, client, "grace")

	st, err := client.ChangePassword(ctx, authsdk.ChangePasswordRequest{
		Username: "grace", CurrentPassword: testPass, NewPassword: "N3w!pass",
	})
	require.NoError(t, err)
	require.True(t, st.OK())

	old, err := client.Login(ctx, "grace", testPass)
	require.NoError(t, err)
	require.Equal(t, authsdk.StatusFailed, old.StatusCode)

	_, err = client.AuthenticateWithPassword(ctx, "grace", "N3w!pass")
	require.NoError(t, err)
}
