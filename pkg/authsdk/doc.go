/*
Package authsdk provides a client SDK for the keycard credential service.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (login, refresh, registration,
    password change, health) and session creation
  - Session: authenticated operations with automatic token refresh

	client := authsdk.NewSDKClient("https://auth.example.com")

	health, err := client.GetLiveness(ctx)

	session, err := client.AuthenticateWithPassword(ctx, "alice", "P@ss1")
	if errors.Is(err, authsdk.ErrLoginFailed) {
		// wrong username or password, deliberately indistinguishable
	}

# Automatic Token Refresh

Every Session method obtains its bearer token through getValidToken, which
rotates the pair through POST /v1/refresh once the access token is within
30 seconds of expiry. Each refresh invalidates the previous refresh token,
so a Session must not be cloned across processes.

	me, err := session.Me(ctx)

	// Ends the session server side. Later refreshes fail.
	err = session.Revoke(ctx)

# Errors

Non-2xx responses are returned as *APIError. Every refresh rejection is
ErrorCodeInvalidRequest regardless of the underlying reason; a 503 with
ErrorCodeTemporarilyUnavailable means the store could not be reached and
the call may be retried.

Sessions are safe for concurrent use.
*/
package authsdk
