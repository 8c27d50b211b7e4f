package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/pkg/idx"
)

type RolesService struct {
	Store store.Store
}

// EnsureRole returns the named role, creating it through tx if missing.
func (s *RolesService) EnsureRole(ctx context.Context, tx store.Tx, name string) (domain.Role, error) {
	role, err := tx.Roles().GetRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, err
	}

	role = domain.Role{ID: idx.New().String(), Name: name}
	if err := tx.Roles().CreateRole(ctx, role); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return tx.Roles().GetRoleByName(ctx, name)
		}
		return domain.Role{}, err
	}
	return role, nil
}

