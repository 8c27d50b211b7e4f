package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/aussiebroadwan/keycard/pkg/slogx"
)

// writeServiceError maps failures that no handler treats specially. Only
// the error class reaches the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		slogx.FromContext(r.Context()).Warn(op+": store unavailable", "err", err)
		authsdk.ErrTemporarilyUnavailable.WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		authsdk.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(op+" failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
