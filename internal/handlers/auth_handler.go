package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"accountd/internal/apperrors"
	"accountd/internal/auth"
	"accountd/internal/config"
	"accountd/internal/models"
	"accountd/internal/repository"
	"accountd/internal/services"
	"accountd/internal/session"
	"accountd/internal/validation"
)

const resetTokenTTL = time.Hour

type AuthHandler struct {
	users    repository.UserRepository
	sessions *session.Manager
	verifier *auth.Verifier
	mailer   services.EmailSender
	cfg      *config.Config
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender) *AuthHandler {
	users := repository.NewUserRepository(db)
	return &AuthHandler{
		users:    users,
		sessions: session.NewManager(repository.NewSessionRepository(db), cfg.SessionTTL),
		verifier: auth.NewVerifier(users),
		mailer:   mailer,
		cfg:      cfg,
	}
}

// Register creates the user and establishes a session in one request; no
// separate login is needed afterwards.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := validation.Run(
		validation.Required("email", req.Email),
		validation.Required("password", req.Password),
		validation.Required("phoneNumber", req.PhoneNumber),
		validation.Email(req.Email),
		validation.Password(req.Password),
		validation.Phone(req.PhoneNumber),
	); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeError(w, apperrors.Conflict("email already registered"))
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		writeError(w, apperrors.Internal(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.NormalizeRole(req.Role),
		PhoneNumber:  req.PhoneNumber,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		// The unique index closes the race left open by the pre-check above.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeError(w, apperrors.Conflict("email already registered"))
			return
		}
		writeError(w, apperrors.Internal(err))
		return
	}

	if err := h.sessions.Bind(r.Context(), w, u.ID); err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	writeJSON(w, http.StatusCreated, u, "user registered")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := validation.Run(
		validation.Required("email", req.Email),
		validation.Required("password", req.Password),
		validation.Email(req.Email),
	); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, apperrors.Unauthorized("invalid email or password"))
			return
		}
		writeError(w, apperrors.Internal(err))
		return
	}

	if err := h.sessions.Bind(r.Context(), w, user.ID); err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	// Re-fetch the projection; a concurrent deletion between verification
	// and here surfaces as 404 rather than a body built from stale state.
	fresh, err := h.users.GetByID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, apperrors.NotFound("user not found"))
			return
		}
		writeError(w, apperrors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, fresh, "login successful")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		log.Printf("Failed to destroy session: %v", err)
		writeError(w, apperrors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, nil, "logged out")
}

// ForgotPassword issues a reset token valid for one hour and mails a recovery
// link. It answers 404 for unknown emails, which reveals account existence; a
// uniform 200 would be the hardened variant.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := validation.Run(validation.Email(req.Email)); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, apperrors.NotFound("user not found"))
			return
		}
		writeError(w, apperrors.Internal(err))
		return
	}

	token, err := generateResetToken()
	if err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := h.users.SetResetToken(r.Context(), user.ID, token, expiresAt); err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	resetURL := strings.TrimRight(h.cfg.AppBaseURL, "/") + "/reset-password/" + token
	subject := "Reset your password"
	body := "Use the link below to reset your password:\n\n" + resetURL + "\n\nThe link expires in 1 hour."
	if err := h.mailer.Send(user.Email, subject, body); err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, nil, "password reset email sent")
}

// ResetPassword consumes the token from the URL path. The update is a single
// guarded statement, so a token can never be replayed.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, apperrors.InvalidInput("reset token is required"))
		return
	}

	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := validation.Run(validation.Password(req.NewPassword)); err != nil {
		writeError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	if err := h.users.ConsumeResetToken(r.Context(), token, string(hash)); err != nil {
		if errors.Is(err, repository.ErrResetTokenInvalid) {
			writeError(w, apperrors.InvalidToken("invalid or expired reset token"))
			return
		}
		writeError(w, apperrors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, nil, "password reset successful")
}

func generateResetToken() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
