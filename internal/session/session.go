// Package session binds authenticated users to server-side session rows and
// mirrors the user identifier into the session_cookie. The cookie value is the
// raw user id, unsigned; the session row is what authenticates a request, so a
// forged cookie without a live row is rejected. Signing the cookie is a known
// hardening candidate.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"accountd/internal/models"
	"accountd/internal/repository"
)

const CookieName = "session_cookie"

type Manager struct {
	sessions repository.SessionRepository
	ttl      time.Duration
}

func NewManager(sessions repository.SessionRepository, ttl time.Duration) *Manager {
	return &Manager{sessions: sessions, ttl: ttl}
}

// Bind creates a session row for userID and sets the session cookie. If the
// row cannot be persisted no cookie is written, so a failed bind never leaves
// the client half-authenticated.
func (m *Manager) Bind(ctx context.Context, w http.ResponseWriter, userID string) error {
	now := time.Now().UTC()
	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Destroy deletes the sessions bound to the cookie-identified user and clears
// the cookie. A missing cookie or zero matching rows is still success.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if err := m.sessions.DeleteByUserID(ctx, c.Value); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
	return nil
}

// Resolve returns the user id of a live session for the request, or
// ErrSessionNotFound when the cookie is absent or no unexpired row matches.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", repository.ErrSessionNotFound
	}

	s, err := m.sessions.GetValidByUserID(ctx, c.Value)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}
