package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
)

const (
	msgMissingFields  = "Please pass all the required fields"
	msgUserExists     = "User already registered"
	msgCreationFailed = "User creation failed"
	msgRegistered     = "Successfully registered"
)

// RegistrationHandler serves POST /v1/registration and
// POST /v1/registration/admin.
type RegistrationHandler struct {
	UserService *service.UserService
	Verifier    jwtx.Verifier
}

// HandleUser godoc
//
//	@Summary		Register user
//	@Description	Creates an account holding the User role.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegistrationRequest	true	"New account"
//	@Success		200		{object}	authsdk.Status				"statusCode 1 on success, 0 on failure"
//	@Failure		400		{object}	authsdk.APIError			"malformed body"
//	@Router			/v1/registration [post].
func (h *RegistrationHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, func(ctx context.Context, reg domain.Registration) (domain.User, error) {
		return h.UserService.Register(ctx, reg)
	})
}

// HandleAdmin godoc
//
//	@Summary		Register admin
//	@Description	Creates an account holding the Admin role. Anonymous callers are accepted only while no Admin exists;
//	@Description	afterwards the caller must present an access token carrying the Admin role.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.RegistrationRequest	true	"New account"
//	@Success		200		{object}	authsdk.Status				"statusCode 1 on success, 0 on failure"
//	@Failure		400		{object}	authsdk.APIError			"malformed body"
//	@Failure		401		{object}	authsdk.APIError			"invalid access token"
//	@Failure		403		{object}	authsdk.APIError			"caller is not an admin"
//	@Router			/v1/registration/admin [post].
func (h *RegistrationHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	callerIsAdmin := false
	if raw, ok := httpx.BearerToken(r); ok {
		claims, err := h.Verifier.Verify(raw)
		if err != nil {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		callerIsAdmin = claims.HasRole(domain.RoleAdmin)
	}

	h.handle(w, r, func(ctx context.Context, reg domain.Registration) (domain.User, error) {
		return h.UserService.RegisterAdmin(ctx, reg, callerIsAdmin)
	})
}

func (h *RegistrationHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	register func(context.Context, domain.Registration) (domain.User, error),
) {
	var req authsdk.RegistrationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	_, err := register(r.Context(), domain.Registration{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		writeStatus(w, authsdk.StatusSuccess, msgRegistered)
	case errors.Is(err, service.ErrInvalidRegistration):
		writeStatus(w, authsdk.StatusFailed, msgMissingFields)
	case errors.Is(err, service.ErrUserExists):
		writeStatus(w, authsdk.StatusFailed, msgUserExists)
	case errors.Is(err, service.ErrInvalidPassword):
		writeStatus(w, authsdk.StatusFailed, msgCreationFailed)
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		authsdk.ErrAccessDenied.WriteError(w)
	default:
		writeServiceError(w, r, "registration", err)
	}
}

func writeStatus(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.Status{StatusCode: code, Message: msg})
}
