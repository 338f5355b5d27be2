package repository

import (
	"context"
	"database/sql"

	"todoapi/app/entity"
)

type PasswordResetTokenRepository struct {
	db DBTX
}

func NewPasswordResetTokenRepository(db DBTX) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

func (r *PasswordResetTokenRepository) WithTx(tx *sql.Tx) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: tx}
}

func (r *PasswordResetTokenRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, is_used, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		token.IsUsed,
		token.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

func (r *PasswordResetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, is_used, created_at
		FROM password_reset_tokens WHERE token = ?
	`
	t := &entity.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.ID,
		&t.UserID,
		&t.Token,
		&t.IsUsed,
		&t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, id uint64) (int64, error) {
	query := `UPDATE password_reset_tokens SET is_used = 1 WHERE id = ? AND is_used = 0`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// InvalidateActiveByUserID retires any outstanding unused tokens so at
// most one actionable token exists per user.
func (r *PasswordResetTokenRepository) InvalidateActiveByUserID(ctx context.Context, userID uint64) error {
	query := `UPDATE password_reset_tokens SET is_used = 1 WHERE user_id = ? AND is_used = 0`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *PasswordResetTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM password_reset_tokens WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
