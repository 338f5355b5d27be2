package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"todoapi/app/dto"
	"todoapi/app/entity"
	"todoapi/app/repository"
	"todoapi/config"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenUsed     = errors.New("reset token has already been used")
	ErrResetTokenExpired  = errors.New("reset token has expired")
	ErrPasswordReused     = errors.New("new password must differ from the current password")
	ErrNotificationFailed = errors.New("failed to send reset notification")
)

// Mailer is the notification sink for the reset flow; delivery is
// best-effort and its failure is surfaced separately from token
// creation.
type Mailer interface {
	SendPasswordReset(to, resetLink string) error
}

type PasswordResetServiceOption func(*PasswordResetService)

type PasswordResetService struct {
	db          *sql.DB
	userRepo    *repository.UserRepository
	resetRepo   *repository.PasswordResetTokenRepository
	revokedRepo *repository.RevokedTokenRepository
	codec       *TokenCodec
	mailer      Mailer
	ttl         time.Duration
	linkBase    string
	now         func() time.Time
}

func NewPasswordResetService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	resetRepo *repository.PasswordResetTokenRepository,
	revokedRepo *repository.RevokedTokenRepository,
	codec *TokenCodec,
	mailer Mailer,
	cfg *config.Config,
	opts ...PasswordResetServiceOption,
) *PasswordResetService {
	svc := &PasswordResetService{
		db:          db,
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		revokedRepo: revokedRepo,
		codec:       codec,
		mailer:      mailer,
		ttl:         cfg.ResetTokenTTL,
		linkBase:    cfg.ResetLinkBase,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithClock overrides the time source, used by tests to place token
// creation and expiry checks on either side of an hour boundary.
func WithClock(now func() time.Time) PasswordResetServiceOption {
	return func(s *PasswordResetService) {
		if now != nil {
			s.now = now
		}
	}
}

// RequestReset mints a one-time reset token for the account behind
// email, retiring any still-outstanding token so at most one is
// actionable, and mails the reset link.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txResetRepo := s.resetRepo.WithTx(tx)
	if err = txResetRepo.InvalidateActiveByUserID(ctx, user.ID); err != nil {
		return err
	}

	if err = txResetRepo.Create(ctx, &entity.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		IsUsed:    false,
		CreatedAt: s.now(),
	}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	// The token row is committed either way; a delivery failure is
	// reported distinctly so the caller can tell it apart from a
	// storage failure.
	link := fmt.Sprintf("%s/%s", s.linkBase, token)
	if err = s.mailer.SendPasswordReset(user.Email, link); err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	return nil
}

// VerifyResetToken is the read-only peek: it reports whether the token
// is live without consuming it, so a UI can check a link before asking
// for the new password.
func (s *PasswordResetService) VerifyResetToken(ctx context.Context, token string) (*dto.ResetTokenStatus, error) {
	record, err := s.resetRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrResetTokenNotFound
	}

	if record.IsUsed {
		return nil, ErrResetTokenUsed
	}

	if s.expired(record.CreatedAt) {
		return nil, ErrResetTokenExpired
	}

	return &dto.ResetTokenStatus{CreatedAt: record.CreatedAt}, nil
}

// ResetPassword consumes the token: the new password is hashed onto the
// user record, the token is marked used, and any live refresh session
// is revoked, all in one transaction.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	record, err := s.resetRepo.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrResetTokenNotFound
	}

	if record.IsUsed {
		return ErrResetTokenUsed
	}

	if s.expired(record.CreatedAt) {
		return ErrResetTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return ErrPasswordReused
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Consuming checks is_used again inside the transaction, so two
	// concurrent resets with the same token cannot both commit.
	consumed, err := s.resetRepo.WithTx(tx).MarkUsed(ctx, record.ID)
	if err != nil {
		return err
	}
	if consumed == 0 {
		return ErrResetTokenUsed
	}

	// A successful reset terminates the live session.
	priorRefreshToken := user.RefreshToken

	user.PasswordHash = string(hashedPassword)
	user.RefreshToken = sql.NullString{Valid: false}
	if err = s.userRepo.WithTx(tx).Update(ctx, user); err != nil {
		return err
	}

	if priorRefreshToken.Valid {
		if err = s.revokedRepo.WithTx(tx).Create(ctx, &entity.RevokedToken{
			Token:     priorRefreshToken.String,
			ExpiresAt: s.codec.Expiry(priorRefreshToken.String),
			CreatedAt: s.now(),
		}); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// expired compares elapsed time against the TTL as a duration; the
// comparison survives hour and day boundaries.
func (s *PasswordResetService) expired(createdAt time.Time) bool {
	return s.now().Sub(createdAt) >= s.ttl
}

func generateResetToken() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret), nil
}
