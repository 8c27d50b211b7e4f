package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
	"github.com/aussiebroadwan/keycard/pkg/slogx"
)

const (
	msgInvalidPasswordChange = "Invalid username or current password"
	msgInvalidNewPassword    = "Invalid new password"
	msgPasswordChanged       = "Password has been changed successfully"
)

// PasswordHandler serves POST /v1/password.
type PasswordHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Change password
//	@Description	Replaces a user's password after verifying the current one. Outstanding refresh tokens are kept.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ChangePasswordRequest	true	"Username, current and new password"
//	@Success		200		{object}	authsdk.Status					"statusCode 1 on success, 0 on failure"
//	@Failure		400		{object}	authsdk.APIError				"malformed body"
//	@Router			/v1/password [post].
func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	err := h.UserService.ChangePassword(r.Context(), req.Username, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		slogx.FromContext(r.Context()).Info("password changed", "username", req.Username)
		writeStatus(w, authsdk.StatusSuccess, msgPasswordChanged)
	case errors.Is(err, service.ErrAuthenticationFailed):
		writeStatus(w, authsdk.StatusFailed, msgInvalidPasswordChange)
	case errors.Is(err, service.ErrInvalidPassword):
		writeStatus(w, authsdk.StatusFailed, msgInvalidNewPassword)
	default:
		writeServiceError(w, r, "change password", err)
	}
}
