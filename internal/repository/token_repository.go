package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo maintains the refresh-token blacklist (single 'token_hash'
// column, unique). A row means the token was revoked and must never mint
// another access token. Rows are append-only; nothing ever leaves the set
// except expiry-based purging.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Blacklist records a revoked refresh token by hash. The insert is
// idempotent: revoking an already-revoked token touches the existing row
// and still reports success.
func (r *TokenRepo) Blacklist(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token_blacklist (user_id, token_hash, expires_at) VALUES (?,?,?) "+
			"ON DUPLICATE KEY UPDATE token_hash = token_hash",
		userID, tokenHash, exp)
	return err
}

// IsBlacklisted reports whether a refresh token hash has been revoked.
func (r *TokenRepo) IsBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM token_blacklist WHERE token_hash=? LIMIT 1", tokenHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired removes blacklist rows whose tokens have expired on their
// own; they can no longer be replayed so the row is dead weight.
func (r *TokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM token_blacklist WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
