package sqlite

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

func nowUTC() time.Time { return time.Now().UTC() }

func (r *refreshTokensRepo) GetRefreshToken(
	ctx context.Context,
	username string,
) (domain.RefreshTokenRecord, error) {
	var (
		rec       domain.RefreshTokenRecord
		hash      sql.NullString
		expiresAt int64
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, token_hash, expires_at, updated_at FROM refresh_tokens WHERE username = ?`,
		username,
	).Scan(&rec.Username, &hash, &expiresAt, &updatedAt)
	if err != nil {
		return domain.RefreshTokenRecord{}, mapNotFound(err)
	}

	rec.TokenHash = mapNullString(hash)
	rec.ExpiresAt = fromMillis(expiresAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func (r *refreshTokensRepo) UpsertRefreshToken(ctx context.Context, rec domain.RefreshTokenRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (username, token_hash, expires_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (username) DO UPDATE SET
		     token_hash = excluded.token_hash,
		     expires_at = excluded.expires_at,
		     updated_at = excluded.updated_at`,
		rec.Username, mapStringNull(rec.TokenHash), toMillis(rec.ExpiresAt), toMillis(nowUTC()),
	)
	return err
}

func (r *refreshTokensRepo) RotateRefreshToken(
	ctx context.Context,
	prevHash string,
	next domain.RefreshTokenRecord,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens
		 SET token_hash = ?, expires_at = ?, updated_at = ?
		 WHERE username = ? AND token_hash = ?`,
		mapStringNull(next.TokenHash), toMillis(next.ExpiresAt), toMillis(nowUTC()),
		next.Username, prevHash,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *refreshTokensRepo) ClearRefreshToken(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET token_hash = NULL, updated_at = ? WHERE username = ?`,
		toMillis(nowUTC()), username,
	)
	return err
}

func (r *refreshTokensRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET token_hash = NULL, updated_at = ?
		 WHERE token_hash IS NOT NULL AND expires_at <= ?`,
		toMillis(nowUTC()), toMillis(now),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
