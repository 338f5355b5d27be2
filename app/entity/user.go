package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID           uint64
	Username     string
	Email        string
	FullName     sql.NullString
	Gender       sql.NullString
	PasswordHash string
	RefreshToken sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
)
