package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"accountd/internal/apperrors"
	"accountd/internal/middleware"
	"accountd/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// @Tags Account
// @Summary Current user
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.respondWithUser(w, r, middleware.UserID(r.Context()))
}

// @Tags Account
// @Summary Get user
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apperrors.InvalidInput("user id is required"))
		return
	}
	h.respondWithUser(w, r, id)
}

func (h *UserHandler) respondWithUser(w http.ResponseWriter, r *http.Request, id string) {
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, apperrors.NotFound("user not found"))
			return
		}
		writeError(w, apperrors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, u, "")
}
