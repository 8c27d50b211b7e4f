package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, username string) (domain.RefreshTokenRecord, error) {
	var (
		rec  domain.RefreshTokenRecord
		hash sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, token_hash, expires_at, updated_at FROM refresh_tokens WHERE username = $1`,
		username,
	).Scan(&rec.Username, &hash, &rec.ExpiresAt, &rec.UpdatedAt)
	if err != nil {
		return domain.RefreshTokenRecord{}, mapNotFound(err)
	}
	rec.TokenHash = hash.String
	rec.ExpiresAt = rec.ExpiresAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

func (r *refreshTokensRepo) UpsertRefreshToken(ctx context.Context, rec domain.RefreshTokenRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (username, token_hash, expires_at, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (username) DO UPDATE SET
		     token_hash = EXCLUDED.token_hash,
		     expires_at = EXCLUDED.expires_at,
		     updated_at = now()`,
		rec.Username, nullString(rec.TokenHash), rec.ExpiresAt.UTC(),
	)
	return err
}

func (r *refreshTokensRepo) RotateRefreshToken(ctx context.Context, prevHash string, next domain.RefreshTokenRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens
		 SET token_hash = $1, expires_at = $2, updated_at = now()
		 WHERE username = $3 AND token_hash = $4`,
		nullString(next.TokenHash), next.ExpiresAt.UTC(), next.Username, prevHash,
	)
	if err != nil {
		return err
	}
	return requireRow(res, store.ErrConflict)
}

func (r *refreshTokensRepo) ClearRefreshToken(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET token_hash = NULL, updated_at = now() WHERE username = $1`,
		username,
	)
	return err
}

func (r *refreshTokensRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET token_hash = NULL, updated_at = now()
		 WHERE token_hash IS NOT NULL AND expires_at <= $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
