package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLoginEndpoint verifies the strict login limit (5 req/min per
// IP + username).
func TestRateLimitLoginEndpoint(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainerWithDefaultRateLimits(t))

	for i := range 5 {
		resp, err := client.Login(t.Context(), "wronguser", "wrongpass")
		require.NoError(t, err, "request %d should not be rate limited", i+1)
		require.Equal(t, authsdk.StatusFailed, resp.StatusCode)
	}

	_, err := client.Login(t.Context(), "wronguser", "wrongpass")
	assertAPIError(t, err, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimitExceeded)

	// Another account from the same address still has budget.
	resp, err := client.Login(t.Context(), "otheruser", "wrongpass")
	require.NoError(t, err)
	require.Equal(t, authsdk.StatusFailed, resp.StatusCode)
}

// TestRateLimitRefreshEndpoint verifies refresh is limited by IP.
func TestRateLimitRefreshEndpoint(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainerWithDefaultRateLimits(t))

	for range 5 {
		_, err := client.Refresh(t.Context(), "bogus", "bogus")
		assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)
	}

	_, err := client.Refresh(t.Context(), "bogus", "bogus")
	assertAPIError(t, err, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimitExceeded)
}
