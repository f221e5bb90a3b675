package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"accountd/internal/models"
	"accountd/internal/repository"
)

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, s.err
}
func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.user, s.err
}
func (s *stubUserRepo) SetResetToken(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	return nil
}
func (s *stubUserRepo) ConsumeResetToken(ctx context.Context, token string, passwordHash string) error {
	return nil
}

func TestVerifySuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Abcd1!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	v := NewVerifier(&stubUserRepo{user: &models.User{ID: "u1", Email: "a@b.com", PasswordHash: string(hash)}})

	user, err := v.Verify(context.Background(), "a@b.com", "Abcd1!")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestVerifyWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Abcd1!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	v := NewVerifier(&stubUserRepo{user: &models.User{ID: "u1", PasswordHash: string(hash)}})

	_, err = v.Verify(context.Background(), "a@b.com", "Wrong1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyUnknownEmailIsInvalidCredentials(t *testing.T) {
	v := NewVerifier(&stubUserRepo{err: repository.ErrUserNotFound})

	_, err := v.Verify(context.Background(), "ghost@b.com", "Abcd1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyStoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	v := NewVerifier(&stubUserRepo{err: storeErr})

	_, err := v.Verify(context.Background(), "a@b.com", "Abcd1!")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
