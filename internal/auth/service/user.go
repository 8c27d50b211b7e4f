package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/pkg/cryptox"
	"github.com/aussiebroadwan/keycard/pkg/idx"
	"github.com/aussiebroadwan/keycard/pkg/slogx"
)

const (
	maxFieldLength    = 128
	maxPasswordLength = 256
)

// UserService is the identity collaborator: it owns users, their password
// hashes and role assignments.
type UserService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Roles  *RolesService
}

// VerifyCredentials accepts a username or an email address. Unknown users
// still pay for a hash so timing does not reveal which accounts exist.
func (s *UserService) VerifyCredentials(ctx context.Context, login, password string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	u, err := s.lookup(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		s.Hasher.DummyVerify(password)
		return domain.Identity{}, ErrAuthenticationFailed
	}
	if err != nil {
		return domain.Identity{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrInvalidHash) {
			l.Error("stored password hash is unreadable", slog.String("user_id", u.ID), slog.Any("error", err))
		}
		return domain.Identity{}, ErrAuthenticationFailed
	}

	roles, err := s.Store.Users().ListRoleNames(ctx, u.ID)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{Username: u.Username, Name: u.Name, Roles: roles}, nil
}

func (s *UserService) lookup(ctx context.Context, login string) (domain.User, error) {
	if login == "" {
		return domain.User{}, store.ErrNotFound
	}
	u, err := s.Store.Users().GetUserByUsername(ctx, login)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(login, "@") {
		return s.Store.Users().GetUserByEmail(ctx, login)
	}
	return u, err
}

// Principal returns the stored identity for username with its current
// roles, which may differ from those embedded in an older token.
func (s *UserService) Principal(ctx context.Context, username string) (domain.Identity, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrUnknownUser
	}
	if err != nil {
		return domain.Identity{}, unavailable(err)
	}
	roles, err := s.Store.Users().ListRoleNames(ctx, u.ID)
	if err != nil {
		return domain.Identity{}, unavailable(err)
	}
	return domain.Identity{Username: u.Username, Name: u.Name, Roles: roles}, nil
}

// Register creates a user holding the User role.
func (s *UserService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	return s.register(ctx, reg, domain.RoleUser, nil)
}

// register validates reg, creates the user and assigns role inside one
// transaction. guard, when set, runs first inside that transaction.
func (s *UserService) register(
	ctx context.Context,
	reg domain.Registration,
	role string,
	guard func(tx store.Tx) error,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	reg, err := normalizeRegistration(reg)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(reg.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     reg.Username,
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUserExists
			}
			return err
		}

		r, err := s.Roles.EnsureRole(ctx, tx, role)
		if err != nil {
			return err
		}
		return tx.Users().AssignRole(ctx, u.ID, r.ID)
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUserExists), errors.Is(err, ErrBootstrapUnauthorized):
		return domain.User{}, err
	default:
		l.Error("failed to register user", slog.String("username", reg.Username), slog.Any("error", err))
		return domain.User{}, unavailable(err)
	}

	l.Info("user registered", slog.String("user_id", u.ID), slog.String("role", role))
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
// Existing refresh tokens are left alone.
func (s *UserService) ChangePassword(ctx context.Context, username, current, next string) error {
	if err := validatePassword(next); err != nil {
		return err
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.Hasher.DummyVerify(current)
		return ErrAuthenticationFailed
	}
	if err != nil {
		return unavailable(err)
	}

	if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
		return ErrAuthenticationFailed
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	return unavailable(s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash))
}

func normalizeRegistration(reg domain.Registration) (domain.Registration, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	switch {
	case reg.Name == "", reg.Username == "", reg.Email == "":
		return reg, fmt.Errorf("%w: name, username and email are required", ErrInvalidRegistration)
	case len(reg.Name) > maxFieldLength, len(reg.Username) > maxFieldLength, len(reg.Email) > maxFieldLength:
		return reg, fmt.Errorf("%w: field too long", ErrInvalidRegistration)
	case strings.ContainsAny(reg.Username, " \t\r\n@"):
		return reg, fmt.Errorf("%w: username must not contain spaces or '@'", ErrInvalidRegistration)
	}

	addr, err := mail.ParseAddress(reg.Email)
	if err != nil || addr.Address != reg.Email {
		return reg, fmt.Errorf("%w: invalid email", ErrInvalidRegistration)
	}

	if err := validatePassword(reg.Password); err != nil {
		return reg, err
	}
	return reg, nil
}

func validatePassword(p string) error {
	if p == "" || len(p) > maxPasswordLength {
		return fmt.Errorf("%w: password must be 1-%d bytes", ErrInvalidPassword, maxPasswordLength)
	}
	return nil
}
