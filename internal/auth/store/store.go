package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by compare-and-swap updates when the stored
	// value no longer matches the expected previous value.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a Tx can never start another transaction.
type Store interface {
	Users() Users
	Roles() Roles
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and principal lookup.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail lets users sign in with their email address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// AssignRole links a user to a role. Assigning twice is a no-op.
	AssignRole(ctx context.Context, userID, roleID string) error

	// ListRoleNames returns the names of the user's roles in assignment order.
	ListRoleNames(ctx context.Context, userID string) ([]string, error)
}

type Roles interface {
	// GetRoleByName fetches a role by its name.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	// Returns ErrAlreadyExists when the name is taken.
	CreateRole(ctx context.Context, r domain.Role) error

	// CountMembers returns how many users hold the named role.
	CountMembers(ctx context.Context, name string) (int, error)
}

// RefreshTokens keeps at most one refresh credential per username.
type RefreshTokens interface {
	// GetRefreshToken returns the record for username or ErrNotFound.
	GetRefreshToken(ctx context.Context, username string) (domain.RefreshTokenRecord, error)

	// UpsertRefreshToken inserts or overwrites the record for rec.Username.
	UpsertRefreshToken(ctx context.Context, rec domain.RefreshTokenRecord) error

	// RotateRefreshToken replaces the stored token with next only if the
	// stored hash still equals prevHash. Returns ErrConflict otherwise.
	RotateRefreshToken(ctx context.Context, prevHash string, next domain.RefreshTokenRecord) error

	// ClearRefreshToken nulls the stored token and keeps the row. Absent
	// rows are not an error.
	ClearRefreshToken(ctx context.Context, username string) error

	// ClearExpiredRefreshTokens nulls every token whose expiry is at or
	// before now and returns how many were cleared.
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
