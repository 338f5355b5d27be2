package http

import (
	"time"

	"todoapi/app/entity"
)

// The status field stays the original wire format's string
// "true"/"false" for client compatibility.
const (
	StatusOK    = "true"
	StatusError = "false"
)

type UserPayload struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserPayload(user *entity.User) UserPayload {
	return UserPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName.String,
		Gender:    user.Gender.String,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type TodoPayload struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsDone      bool      `json:"isDone"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewTodoPayload(todo *entity.Todo) TodoPayload {
	return TodoPayload{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsDone:      todo.IsDone,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func NewTodoPayloads(todos []*entity.Todo) []TodoPayload {
	payloads := make([]TodoPayload, 0, len(todos))
	for _, todo := range todos {
		payloads = append(payloads, NewTodoPayload(todo))
	}
	return payloads
}

type RegisterResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	User    UserPayload `json:"user"`
	Token   string      `json:"token"`
}

type LoginResponse struct {
	Status      string      `json:"status"`
	Message     string      `json:"message"`
	User        UserPayload `json:"user"`
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
}

type RefreshTokenResponse struct {
	Status      string `json:"status"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type VerifyResetTokenResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type TodoResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Todo    TodoPayload `json:"todo"`
}

type TodoListResponse struct {
	Todos []TodoPayload `json:"todos"`
}

type UserResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	User    UserPayload `json:"user"`
}

type UserWithTodosResponse struct {
	Status string        `json:"status"`
	User   UserPayload   `json:"user"`
	Todos  []TodoPayload `json:"todos"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type FieldError struct {
	Msg string `json:"msg"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

func NewValidationErrorResponse(msgs []string) ValidationErrorResponse {
	errs := make([]FieldError, 0, len(msgs))
	for _, msg := range msgs {
		errs = append(errs, FieldError{Msg: msg})
	}
	return ValidationErrorResponse{Errors: errs}
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: message}
}
