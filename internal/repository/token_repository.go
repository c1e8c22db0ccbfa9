package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TokenRepo stores refresh tokens by SHA-256 hash; raw tokens never reach
// the database.
type TokenRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db, now: time.Now} }

func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at) VALUES (?,?,?,?)`,
		userID, tokenHash, exp.UTC(), r.now().UTC())
	return translate(err)
}

// ValidateRefresh returns the token's user when the token is live, and
// ErrNotFound when it is unknown, revoked or expired.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens
		  WHERE token_hash=? AND revoked_at IS NULL AND expires_at > ? LIMIT 1`,
		tokenHash, r.now().UTC()).Scan(&userID)
	if err != nil {
		return uuid.Nil, translate(err)
	}
	return userID, nil
}

// RevokeByHash revokes a live token.  Only one caller can revoke a given
// token; the others get ErrNotFound, which makes rotation single-use.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	now := r.now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at=?
		  WHERE token_hash=? AND revoked_at IS NULL AND expires_at > ?`,
		now, tokenHash, now)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllForUser revokes every live token of the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at=? WHERE user_id=? AND revoked_at IS NULL`,
		r.now().UTC(), userID)
	return translate(err)
}
