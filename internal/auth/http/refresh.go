package http

import (
	"net/http"

	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
)

// RefreshHandler serves POST /v1/refresh.
type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh
//	@Description	Exchanges an access token (expired is fine, the signature must still verify) and the current refresh token for a new pair.
//	@Description	The presented refresh token is invalidated. Every rejection is the same invalid_request error.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Current token pair"
//	@Success		200		{object}	authsdk.RefreshResponse	"accessToken, refreshToken"
//	@Failure		400		{object}	authsdk.APIError		"Invalid client request"
//	@Failure		503		{object}	authsdk.APIError		"store unavailable"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, "refresh", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
