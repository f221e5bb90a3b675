package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"accountd/internal/config"
	"accountd/internal/handlers"
	"accountd/internal/middleware"
	"accountd/internal/repository"
	"accountd/internal/session"
)

func RegisterUserRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	userRepo := repository.NewUserRepository(db)
	userHandler := handlers.NewUserHandler(userRepo)
	sessions := session.NewManager(repository.NewSessionRepository(db), cfg.SessionTTL)

	router.Route("/users", func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions))

		r.Get("/me", userHandler.Me)
		r.Get("/{id}", userHandler.GetUser)
	})
}
