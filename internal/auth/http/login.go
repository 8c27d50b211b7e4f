package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
)

const (
	msgLoggedIn     = "Logged in"
	msgInvalidLogin = "Invalid Username or Password"
)

// LoginHandler serves POST /v1/login.
type LoginHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Verifies a username (or email) and password and issues an access token plus a refresh token.
//	@Description	A rejected login is still HTTP 200 with statusCode 0; unknown users and wrong passwords are indistinguishable.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"statusCode 1 on success, 0 on failure"
//	@Failure		400		{object}	authsdk.APIError		"malformed body"
//	@Failure		503		{object}	authsdk.APIError		"store unavailable"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	res, err := h.TokenService.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrAuthenticationFailed) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
			StatusCode: authsdk.StatusFailed,
			Message:    msgInvalidLogin,
		})
		return
	}
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	exp := res.ExpiresAt
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		StatusCode:   authsdk.StatusSuccess,
		Message:      msgLoggedIn,
		Name:         res.Name,
		Username:     res.Username,
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
		Expiration:   &exp,
	})
}
