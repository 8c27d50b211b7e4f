package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the keycard credential service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new credential service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword logs in and wraps the returned tokens in a Session.
// A rejected login is returned as ErrLoginFailed.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != StatusSuccess || resp.Expiration == nil {
		return nil, ErrLoginFailed
	}
	return c.NewSessionFromTokens(resp.Token, resp.RefreshToken, *resp.Expiration), nil
}

// NewSessionFromTokens creates an authenticated session from existing tokens.
// The session still refreshes automatically once expiresAt is near.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, expiresAt time.Time) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt.Add(-refreshBuffer),
	}
}
