package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"accountd/internal/models"
)

func newMock(t *testing.T) (UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewUserRepository(db), mock, func() { db.Close() }
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), &models.User{
		ID:    "u1",
		Email: "a@b.com",
		Role:  models.RoleUser,
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("ghost@b.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "role", "phone_number",
			"reset_token", "reset_token_expires_at", "created_at",
		}))

	_, err := repo.GetByEmail(context.Background(), "ghost@b.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByEmailScansResetTokenPair(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	expiry := time.Now().UTC().Add(30 * time.Minute)
	mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "role", "phone_number",
			"reset_token", "reset_token_expires_at", "created_at",
		}).AddRow("u1", "a@b.com", "hash", "admin", "+919876543210", "abc123", expiry, time.Now().UTC()))

	u, err := repo.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q", u.Role)
	}
	if u.ResetToken == nil || *u.ResetToken != "abc123" {
		t.Fatalf("expected reset token abc123, got %v", u.ResetToken)
	}
	if u.ResetTokenExpiresAt == nil || !u.ResetTokenExpiresAt.Equal(expiry) {
		t.Fatalf("expected expiry %v, got %v", expiry, u.ResetTokenExpiresAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConsumeResetTokenSingleUse(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	// First consume matches the row; the replay matches nothing because the
	// token fields were nulled by the first statement.
	mock.ExpectExec(`UPDATE users\s+SET password_hash = \$1, reset_token = NULL, reset_token_expires_at = NULL`).
		WithArgs("newhash", "abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users\s+SET password_hash = \$1, reset_token = NULL, reset_token_expires_at = NULL`).
		WithArgs("newhash", "abc123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.ConsumeResetToken(context.Background(), "abc123", "newhash"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	err := repo.ConsumeResetToken(context.Background(), "abc123", "newhash")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on replay, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetResetTokenUnknownUser(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectExec(`UPDATE users\s+SET reset_token = \$1, reset_token_expires_at = \$2`).
		WithArgs("abc123", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetResetToken(context.Background(), "missing", "abc123", time.Now().UTC().Add(time.Hour))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
