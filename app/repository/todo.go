package repository

import (
	"context"
	"database/sql"
	"time"

	"todoapi/app/entity"
)

type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) WithTx(tx *sql.Tx) *TodoRepository {
	return &TodoRepository{db: tx}
}

const todoColumns = `id, user_id, title, description, is_done, created_at, updated_at`

func (r *TodoRepository) Create(ctx context.Context, todo *entity.Todo) error {
	query := `
		INSERT INTO todos (user_id, title, description, is_done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.IsDone,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	todo.ID = uint64(id)
	return nil
}

// FindByIDAndOwner scopes the lookup by owner so one user can never
// read another user's todo.
func (r *TodoRepository) FindByIDAndOwner(ctx context.Context, id, userID uint64) (*entity.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ? AND user_id = ?`
	todo := &entity.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.IsDone,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID uint64) ([]*entity.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*entity.Todo{}
	for rows.Next() {
		todo := &entity.Todo{}
		if err := rows.Scan(
			&todo.ID,
			&todo.UserID,
			&todo.Title,
			&todo.Description,
			&todo.IsDone,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) Update(ctx context.Context, todo *entity.Todo) (int64, error) {
	query := `
		UPDATE todos SET
			title = ?,
			description = ?,
			is_done = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	todo.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		todo.Title,
		todo.Description,
		todo.IsDone,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TodoRepository) UpdateIsDone(ctx context.Context, id, userID uint64, isDone bool) (int64, error) {
	query := `UPDATE todos SET is_done = ?, updated_at = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, isDone, time.Now(), id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	query := `DELETE FROM todos WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, userID uint64) error {
	query := `DELETE FROM todos WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
