package service

import (
	"context"
	"errors"
	"time"

	"todoapi/app/entity"
	"todoapi/app/repository"
)

var ErrTodoNotFound = errors.New("todo not found")

// TodoService is plain per-owner record CRUD; every operation is keyed
// by the authenticated owner's id.
type TodoService struct {
	todoRepo *repository.TodoRepository
}

func NewTodoService(todoRepo *repository.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

func (s *TodoService) Create(ctx context.Context, userID uint64, title, description string, isDone bool) (*entity.Todo, error) {
	now := time.Now()
	todo := &entity.Todo{
		UserID:      userID,
		Title:       title,
		Description: description,
		IsDone:      isDone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, userID uint64) ([]*entity.Todo, error) {
	return s.todoRepo.ListByOwner(ctx, userID)
}

func (s *TodoService) Get(ctx context.Context, id, userID uint64) (*entity.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, id, userID uint64, title, description string, isDone bool) (*entity.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}

	todo.Title = title
	todo.Description = description
	todo.IsDone = isDone

	if _, err = s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) SetDone(ctx context.Context, id, userID uint64, isDone bool) (*entity.Todo, error) {
	affected, err := s.todoRepo.UpdateIsDone(ctx, id, userID, isDone)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTodoNotFound
	}
	return s.Get(ctx, id, userID)
}

func (s *TodoService) Delete(ctx context.Context, id, userID uint64) error {
	affected, err := s.todoRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTodoNotFound
	}
	return nil
}
