package repository

import (
	"context"
	"database/sql"
	"errors"

	"accountd/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetValidByUserID(ctx context.Context, userID string) (*models.Session, error)
	// DeleteByUserID removes every session bound to the user. Deleting zero
	// rows is not an error; logout is idempotent.
	DeleteByUserID(ctx context.Context, userID string) error
}

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt).Scan(&session.CreatedAt)
	return err
}

func (r *sessionRepository) GetValidByUserID(ctx context.Context, userID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE user_id = $1
		AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s models.Session
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}
