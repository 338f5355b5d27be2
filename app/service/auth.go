package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoapi/app/dto"
	"todoapi/app/entity"
	"todoapi/app/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredential  = errors.New("missing credential")
	ErrNoSession          = errors.New("no active session")
	ErrSessionRevoked     = errors.New("session has been revoked")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService is the session manager: it orchestrates credential
// verification, token issuance, revocation and refresh against the
// credential store and the revocation ledger.
type AuthService struct {
	db          *sql.DB
	userRepo    *repository.UserRepository
	revokedRepo *repository.RevokedTokenRepository
	codec       *TokenCodec
}

func NewAuthService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	revokedRepo *repository.RevokedTokenRepository,
	codec *TokenCodec,
) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
		codec:       codec,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*dto.RegisterResult, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResult{
		User:  user,
		Token: token,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*dto.LoginResult, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.codec.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// A re-login supersedes the previous session: the old refresh token
	// is revoked, not merely orphaned, before being overwritten.
	if user.RefreshToken.Valid {
		if err = s.revokedRepo.WithTx(tx).Create(ctx, &entity.RevokedToken{
			Token:     user.RefreshToken.String,
			ExpiresAt: s.codec.Expiry(user.RefreshToken.String),
			CreatedAt: time.Now(),
		}); err != nil {
			return nil, err
		}
	}

	if err = s.userRepo.WithTx(tx).UpdateRefreshToken(ctx, user.ID, sql.NullString{String: refreshToken, Valid: true}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	user.RefreshToken = sql.NullString{String: refreshToken, Valid: true}

	return &dto.LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.codec.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout revokes both the presented access token and the user's stored
// refresh token, then clears the stored refresh token, all in one
// transaction so a half-completed logout cannot leave a usable session.
func (s *AuthService) Logout(ctx context.Context, userID uint64, accessToken string) error {
	if userID == 0 || accessToken == "" {
		return ErrMissingCredential
	}

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

	txRevoked := s.revokedRepo.WithTx(tx)
	now := time.Now()

	if err = txRevoked.Create(ctx, &entity.RevokedToken{
		Token:     accessToken,
		ExpiresAt: s.codec.Expiry(accessToken),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if user.RefreshToken.Valid {
		if err = txRevoked.Create(ctx, &entity.RevokedToken{
			Token:     user.RefreshToken.String,
			ExpiresAt: s.codec.Expiry(user.RefreshToken.String),
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}

	if err = s.userRepo.WithTx(tx).UpdateRefreshToken(ctx, user.ID, sql.NullString{Valid: false}); err != nil {
		return err
	}

	return tx.Commit()
}

// Refresh issues a new access token from the user's stored refresh
// token. The refresh token itself is not rotated and the decoded token
// subject is authoritative over the caller-supplied id.
func (s *AuthService) Refresh(ctx context.Context, userID uint64) (*dto.RefreshResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.RefreshToken.Valid {
		return nil, ErrNoSession
	}

	revoked, err := s.revokedRepo.Exists(ctx, user.RefreshToken.String)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	claims, err := s.codec.Verify(user.RefreshToken.String)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if claims.UserID != userID {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidSession)
	}

	accessToken, err := s.codec.IssueAccessToken(claims.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.codec.AccessTokenTTL().Seconds()),
	}, nil
}

// Authenticate validates a bearer token for guarded routes: signature
// and expiry via the codec, then the revocation ledger. A revoked token
// fails exactly like an expired one, differing only in the error.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revokedRepo.Exists(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}
