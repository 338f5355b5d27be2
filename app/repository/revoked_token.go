package repository

import (
	"context"
	"database/sql"
	"time"

	"todoapi/app/entity"
)

type RevokedTokenRepository struct {
	db DBTX
}

func NewRevokedTokenRepository(db DBTX) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

func (r *RevokedTokenRepository) WithTx(tx *sql.Tx) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: tx}
}

// Create records the token as revoked. Idempotent: revoking an already
// revoked token is a no-op.
func (r *RevokedTokenRepository) Create(ctx context.Context, token *entity.RevokedToken) error {
	query := `
		INSERT IGNORE INTO revoked_tokens (token, expires_at, created_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

func (r *RevokedTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	query := `SELECT 1 FROM revoked_tokens WHERE token = ?`
	var one int
	err := r.db.QueryRowContext(ctx, query, token).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired prunes entries whose token would have expired on its
// own; a revoked entry for a dead token serves no purpose.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < ?`
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
