package http

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
)

// adminData is the body of the Admin-only probe endpoint.
const adminData = "Data from admin controller"

// PrincipalLookup resolves a username to its stored identity.
type PrincipalLookup interface {
	Principal(ctx context.Context, username string) (domain.Identity, error)
}

// MeHandler serves GET /v1/me. The subject comes from the verified token;
// name and roles are read from the store so role changes show immediately.
type MeHandler struct {
	Users PrincipalLookup
}

// ServeHTTP godoc
//
//	@Summary		Current principal
//	@Description	Returns the caller's stored name and current roles, plus the expiry of the presented access token.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.MeResponse	"username, name, roles, expiresAt"
//	@Failure		401	{object}	authsdk.APIError	"missing or invalid access token, or account no longer exists"
//	@Failure		503	{object}	authsdk.APIError	"credential store unavailable"
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	ident, err := h.Users.Principal(r.Context(), claims.Subject)
	if errors.Is(err, service.ErrUnknownUser) {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}
	if err != nil {
		writeServiceError(w, r, "me", err)
		return
	}

	resp := authsdk.MeResponse{
		Username: ident.Username,
		Name:     ident.Name,
		Roles:    slices.Clone(ident.Roles),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// AdminDataHandler godoc
//
//	@Summary		Admin probe
//	@Description	Answers only callers whose access token carries the Admin role.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{string}	string				"Data from admin controller"
//	@Failure		401	{object}	authsdk.APIError	"missing or invalid access token"
//	@Failure		403	{object}	authsdk.APIError	"caller is not an admin"
//	@Router			/v1/admin/data [get].
func AdminDataHandler(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, adminData)
}
