// Package auth performs credential verification against the stored password
// hash. The outcome is one of three cases: a system error, invalid
// credentials, or the verified user. Callers must not tell clients which half
// of a credential pair was wrong, so an unknown email and a wrong password
// both come back as ErrInvalidCredentials.
package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"accountd/internal/models"
	"accountd/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Verifier struct {
	users repository.UserRepository
}

func NewVerifier(users repository.UserRepository) *Verifier {
	return &Verifier{users: users}
}

func (v *Verifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
