package repository_test

import (
	"context"
	"testing"
	"time"

	"todoapi/app/entity"
	"todoapi/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertRevokedTokenQuery  = `(?s)INSERT IGNORE INTO revoked_tokens \(token, expires_at, created_at\)\s+VALUES \(\?, \?, \?\)`
	revokedTokenExistsQuery  = `SELECT 1 FROM revoked_tokens WHERE token = \?`
	deleteExpiredTokensQuery = `DELETE FROM revoked_tokens WHERE expires_at < \?`
)

func TestRevokedTokenRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewRevokedTokenRepository(db)
	now := time.Now()

	mock.ExpectExec(insertRevokedTokenQuery).
		WithArgs("token", now.Add(time.Hour), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entity.RevokedToken{
		Token:     "token",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRevokedTokenRepository_Create_AlreadyRevoked(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewRevokedTokenRepository(db)
	now := time.Now()

	// INSERT IGNORE reports zero rows affected for a duplicate key and
	// the repository treats that as success.
	mock.ExpectExec(insertRevokedTokenQuery).
		WithArgs("token", now.Add(time.Hour), now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), &entity.RevokedToken{
		Token:     "token",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("expected duplicate revoke to be a no-op, got %v", err)
	}
}

func TestRevokedTokenRepository_Exists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewRevokedTokenRepository(db)

	mock.ExpectQuery(revokedTokenExistsQuery).
		WithArgs("revoked-token").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(revokedTokenExistsQuery).
		WithArgs("live-token").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.Exists(context.Background(), "revoked-token")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected revoked-token to exist in the ledger")
	}

	exists, err = repo.Exists(context.Background(), "live-token")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatalf("expected live-token to be absent from the ledger")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRevokedTokenRepository_DeleteExpired(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewRevokedTokenRepository(db)

	mock.ExpectExec(deleteExpiredTokensQuery).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	pruned, err := repo.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if pruned != 3 {
		t.Fatalf("expected 3 rows pruned, got %d", pruned)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
