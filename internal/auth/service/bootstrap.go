package service

import (
	"context"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/pkg/slogx"
)

// IsBootstrapped reports whether any user holds the Admin role.
func (s *UserService) IsBootstrapped(ctx context.Context) (bool, error) {
	n, err := s.Store.Roles().CountMembers(ctx, domain.RoleAdmin)
	if err != nil {
		return false, unavailable(err)
	}
	return n > 0, nil
}

// RegisterAdmin creates a user holding the Admin role. Until the first admin
// exists anyone may call it; afterwards callerIsAdmin must be true.
//
// Anonymous calls are refused before the password is hashed once an admin
// exists. The count is checked again inside the insert transaction.
func (s *UserService) RegisterAdmin(
	ctx context.Context,
	reg domain.Registration,
	callerIsAdmin bool,
) (domain.User, error) {
	if !callerIsAdmin {
		done, err := s.IsBootstrapped(ctx)
		if err != nil {
			return domain.User{}, err
		}
		if done {
			slogx.FromContext(ctx).Warn("anonymous admin registration after bootstrap")
			return domain.User{}, ErrBootstrapUnauthorized
		}
	}

	guard := func(tx store.Tx) error {
		if callerIsAdmin {
			return nil
		}
		n, err := tx.Roles().CountMembers(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		if n > 0 {
			slogx.FromContext(ctx).Warn("anonymous admin registration after bootstrap")
			return ErrBootstrapUnauthorized
		}
		return nil
	}
	return s.register(ctx, reg, domain.RoleAdmin, guard)
}
