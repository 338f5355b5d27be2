package controller_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"todoapi/app/controller"
	"todoapi/app/middleware"
	"todoapi/app/repository"
	"todoapi/app/service"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	updateUserQuery      = `(?s)UPDATE users SET\s+username = \?,\s+email = \?,\s+full_name = \?,\s+gender = \?,\s+password_hash = \?,\s+refresh_token = \?,\s+updated_at = \?\s+WHERE id = \?`
	deleteUserQuery      = `DELETE FROM users WHERE id = \?`
	deleteOwnerTodos     = `DELETE FROM todos WHERE user_id = \?`
	deleteOwnerResets    = `DELETE FROM password_reset_tokens WHERE user_id = \?`
	listOwnerTodosForMe  = `SELECT id, user_id, title, description, is_done, created_at, updated_at FROM todos WHERE user_id = \? ORDER BY id`
	insertRevokedForUser = `(?s)INSERT IGNORE INTO revoked_tokens \(token, expires_at, created_at\)\s+VALUES \(\?, \?, \?\)`
)

func newUserControllerWithMock(t *testing.T) (*controller.UserController, *service.TokenCodec, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	codec := service.NewTokenCodec(testConfig())
	userService := service.NewUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewTodoRepository(db),
		repository.NewPasswordResetTokenRepository(db),
		repository.NewRevokedTokenRepository(db),
		codec,
	)

	return controller.NewUserController(userService), codec, mock, func() { _ = db.Close() }
}

func TestUserMe_Success(t *testing.T) {
	userController, _, mock, cleanup := newUserControllerWithMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(1)).
		WillReturnRows(addUserRow(sqlmock.NewRows(userColumns), 1, "alice", "a@gmail.com", "hash", sql.NullString{}))
	mock.ExpectQuery(listOwnerTodosForMe).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow(uint64(1), uint64(1), "buy milk", "", false, now, now))

	req, rec := newJSONRequest(t, http.MethodGet, "/api/users/me", nil)
	ctx := newEcho().NewContext(req, rec)
	ctx.Set(middleware.ContextUserID, uint64(1))

	if err := userController.Me(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Todos []struct {
			Title string `json:"title"`
		} `json:"todos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if body.User.Username != "alice" || len(body.Todos) != 1 {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestUserUpdate_ForeignSubject(t *testing.T) {
	userController, _, _, cleanup := newUserControllerWithMock(t)
	defer cleanup()

	req, rec := newJSONRequest(t, http.MethodPut, "/api/users/2", map[string]string{
		"fullName": "Alice A",
		"username": "alice",
		"email":    "a@gmail.com",
	})
	ctx := newEcho().NewContext(req, rec)
	ctx.Set(middleware.ContextUserID, uint64(1))
	ctx.SetParamNames("id")
	ctx.SetParamValues("2")

	if err := userController.Update(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestUserUpdate_Success(t *testing.T) {
	userController, _, mock, cleanup := newUserControllerWithMock(t)
	defer cleanup()

	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(1)).
		WillReturnRows(addUserRow(sqlmock.NewRows(userColumns), 1, "alice", "a@gmail.com", "hash", sql.NullString{}))
	mock.ExpectExec(updateUserQuery).
		WithArgs("alice", "a@gmail.com", sqlmock.AnyArg(), sqlmock.AnyArg(), "hash", sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req, rec := newJSONRequest(t, http.MethodPut, "/api/users/1", map[string]string{
		"fullName": "Alice A",
		"username": "alice",
		"email":    "a@gmail.com",
		"gender":   "female",
	})
	ctx := newEcho().NewContext(req, rec)
	ctx.Set(middleware.ContextUserID, uint64(1))
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	if err := userController.Update(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		User struct {
			FullName string `json:"fullName"`
			Gender   string `json:"gender"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if body.User.FullName != "Alice A" || body.User.Gender != "female" {
		t.Fatalf("unexpected user payload: %+v", body.User)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserUpdate_InvalidGender(t *testing.T) {
	userController, _, _, cleanup := newUserControllerWithMock(t)
	defer cleanup()

	req, rec := newJSONRequest(t, http.MethodPut, "/api/users/1", map[string]string{
		"fullName": "Alice A",
		"username": "alice",
		"email":    "a@gmail.com",
		"gender":   "other",
	})
	ctx := newEcho().NewContext(req, rec)
	ctx.Set(middleware.ContextUserID, uint64(1))
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	if err := userController.Update(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUserDelete_CascadesOwnedData(t *testing.T) {
	userController, codec, mock, cleanup := newUserControllerWithMock(t)
	defer cleanup()

	refreshToken, _ := codec.IssueRefreshToken(1)

	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(1)).
		WillReturnRows(addUserRow(sqlmock.NewRows(userColumns), 1, "alice", "a@gmail.com", "hash", sql.NullString{String: refreshToken, Valid: true}))
	mock.ExpectBegin()
	mock.ExpectExec(deleteOwnerTodos).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(deleteOwnerResets).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertRevokedForUser).
		WithArgs(refreshToken, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteUserQuery).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, rec := newJSONRequest(t, http.MethodDelete, "/api/users/1", nil)
	ctx := newEcho().NewContext(req, rec)
	ctx.Set(middleware.ContextUserID, uint64(1))
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	if err := userController.Delete(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
