package entity

import "time"

// RevokedToken marks a token string unusable regardless of its
// cryptographic validity. ExpiresAt carries the token's own expiry so
// rows can be pruned once the token would have died anyway.
type RevokedToken struct {
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type PasswordResetToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	IsUsed    bool
	CreatedAt time.Time
}
