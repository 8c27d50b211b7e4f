package authsdk

import (
	"context"
	"errors"
	"net/http"
)

// ErrLoginFailed is returned by AuthenticateWithPassword when the service
// answers with a failed login status.
var ErrLoginFailed = errors.New("authsdk: invalid username or password")

// Login posts credentials. A rejected login is not an error: inspect
// StatusCode on the returned response.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.postJSON(ctx, "/v1/login", LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a (possibly expired) access token and the current
// refresh token for a new pair.
func (c *SDKClient) Refresh(ctx context.Context, accessToken, refreshToken string) (*RefreshResponse, error) {
	var out RefreshResponse
	err := c.postJSON(ctx, "/v1/refresh", RefreshRequest{AccessToken: accessToken, RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a User account.
func (c *SDKClient) Register(ctx context.Context, req RegistrationRequest) (*Status, error) {
	var out Status
	if err := c.postJSON(ctx, "/v1/registration", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterFirstAdmin creates an Admin account anonymously. It only succeeds
// while the service has no Admin yet; afterwards use Session.RegisterAdmin.
func (c *SDKClient) RegisterFirstAdmin(ctx context.Context, req RegistrationRequest) (*Status, error) {
	var out Status
	if err := c.postJSON(ctx, "/v1/registration/admin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces a user's password after checking the current one.
func (c *SDKClient) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*Status, error) {
	var out Status
	if err := c.postJSON(ctx, "/v1/password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness reports whether the process is serving.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness reports whether the service can reach its store. A degraded
// service answers 503, returned as *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	var h HealthResponse
	if err := c.call(ctx, http.MethodGet, path, "", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// postJSON posts body anonymously and decodes the 200 response into out.
func (c *SDKClient) postJSON(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, "", body, out)
}
