package authsdk

import "time"

// ============================================================================
// Credential Types
// ============================================================================

// Login status codes carried in LoginResponse.StatusCode and Status.StatusCode.
const (
	StatusFailed  = 0
	StatusSuccess = 1
)

// LoginRequest is the body of POST /v1/login. Username may also be the
// account's email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is always returned with HTTP 200; StatusCode tells success
// (1) from failure (0). On failure only StatusCode and Message are set.
type LoginResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`

	Name         string `json:"name,omitempty"`
	Username     string `json:"username,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`

	// Expiration is the access token expiry, null on failure.
	Expiration *time.Time `json:"expiration"`
}

// RefreshRequest is the body of POST /v1/refresh. The access token may be
// expired but must carry a valid signature.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse holds the new pair. The previous refresh token is no
// longer valid once this is returned.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegistrationRequest is the body of POST /v1/registration and
// POST /v1/registration/admin.
type RegistrationRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /v1/password.
type ChangePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Status is the generic outcome body used by registration and password
// change.
type Status struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// OK reports whether the status signals success.
func (s Status) OK() bool { return s.StatusCode == StatusSuccess }

// MeResponse describes the principal carried by the caller's access token.
type MeResponse struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the build version of the service
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Store indicates the credential store connection status
	Store string `json:"store"`
}
