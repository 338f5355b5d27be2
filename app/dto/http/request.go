package http

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,nospace"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,nospace"`
	Password   string `json:"password" validate:"required,min=6"`
}

type RefreshTokenRequest struct {
	UserID uint64 `json:"userId" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
}

type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
}

type UpdateTodoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
}

type UpdateTodoStatusRequest struct {
	IsDone *bool `json:"isDone" validate:"required"`
}

type UpdateUserRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required,nospace"`
	Email    string `json:"email" validate:"required,email"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female"`
}
