package entity

import "time"

type Todo struct {
	ID          uint64
	UserID      uint64
	Title       string
	Description string
	IsDone      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
