package dto

import (
	"time"

	"todoapi/app/entity"
)

type RegisterResult struct {
	User  *entity.User
	Token string
}

type LoginResult struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

type ResetTokenStatus struct {
	CreatedAt time.Time
}

type UserWithTodos struct {
	User  *entity.User
	Todos []*entity.Todo
}
