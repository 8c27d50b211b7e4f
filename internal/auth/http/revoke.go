package http

import (
	"net/http"

	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
)

// RevokeHandler serves POST /v1/revoke. It must run behind AuthnMiddleware.
type RevokeHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Revoke
//	@Description	Clears the caller's refresh token. The access token stays valid until it expires.
//	@Tags			Credentials
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{boolean}	bool				"true"
//	@Failure		401	{object}	authsdk.APIError	"missing or invalid access token"
//	@Failure		503	{object}	authsdk.APIError	"store unavailable"
//	@Router			/v1/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, ok := httpx.SubjectFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.TokenService.Revoke(r.Context(), sub); err != nil {
		writeServiceError(w, r, "revoke", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, true)
}
