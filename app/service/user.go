package service

import (
	"context"
	"database/sql"
	"time"

	"todoapi/app/dto"
	"todoapi/app/entity"
	"todoapi/app/repository"
)

type UserService struct {
	db          *sql.DB
	userRepo    *repository.UserRepository
	todoRepo    *repository.TodoRepository
	resetRepo   *repository.PasswordResetTokenRepository
	revokedRepo *repository.RevokedTokenRepository
	codec       *TokenCodec
}

func NewUserService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	todoRepo *repository.TodoRepository,
	resetRepo *repository.PasswordResetTokenRepository,
	revokedRepo *repository.RevokedTokenRepository,
	codec *TokenCodec,
) *UserService {
	return &UserService{
		db:          db,
		userRepo:    userRepo,
		todoRepo:    todoRepo,
		resetRepo:   resetRepo,
		revokedRepo: revokedRepo,
		codec:       codec,
	}
}

func (s *UserService) GetWithTodos(ctx context.Context, userID uint64) (*dto.UserWithTodos, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	todos, err := s.todoRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserWithTodos{User: user, Todos: todos}, nil
}

func (s *UserService) Update(ctx context.Context, userID uint64, fullName, username, email, gender string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if username != user.Username {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUserExists
		}
	}
	if email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUserExists
		}
	}

	user.FullName = sql.NullString{String: fullName, Valid: fullName != ""}
	user.Username = username
	user.Email = email
	user.Gender = sql.NullString{String: gender, Valid: gender != ""}

	if err = s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and everything it owns in one
// transaction: todos, reset tokens, the live session, then the user
// row itself.
func (s *UserService) Delete(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = s.todoRepo.WithTx(tx).DeleteByOwner(ctx, userID); err != nil {
		return err
	}

	if err = s.resetRepo.WithTx(tx).DeleteByUserID(ctx, userID); err != nil {
		return err
	}

	if user.RefreshToken.Valid {
		if err = s.revokedRepo.WithTx(tx).Create(ctx, &entity.RevokedToken{
			Token:     user.RefreshToken.String,
			ExpiresAt: s.codec.Expiry(user.RefreshToken.String),
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
	}

	affected, err := s.userRepo.WithTx(tx).Delete(ctx, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return tx.Commit()
}
