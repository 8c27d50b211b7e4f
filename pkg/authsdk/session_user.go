package authsdk

import (
	"context"
	"net/http"
)

// Me returns the principal carried by the session's access token.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	var me MeResponse
	if err := s.call(ctx, http.MethodGet, "/v1/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// AdminData calls the Admin-only endpoint. Requires the Admin role.
func (s *Session) AdminData(ctx context.Context) (string, error) {
	var data string
	if err := s.call(ctx, http.MethodGet, "/v1/admin/data", nil, &data); err != nil {
		return "", err
	}
	return data, nil
}

// RegisterAdmin creates another Admin account. Requires the Admin role.
func (s *Session) RegisterAdmin(ctx context.Context, req RegistrationRequest) (*Status, error) {
	var out Status
	if err := s.call(ctx, http.MethodPost, "/v1/registration/admin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
