package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/chatboard/internal/auth"
	"github.com/crucial707/chatboard/internal/config"
	"github.com/crucial707/chatboard/internal/handlers"
	"github.com/crucial707/chatboard/internal/middleware"
	"github.com/crucial707/chatboard/internal/repo"
	"github.com/crucial707/chatboard/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires handlers and middleware over store and sessions.
func newRouter(store repo.Store, sessions *session.Manager, cfg config.Config) (http.Handler, error) {
	alg := cfg.PasswordHash
	if alg == "" {
		alg = config.HashBcrypt
	}
	hasher, err := auth.NewHasher(alg)
	if err != nil {
		return nil, err
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	authHandler := &handlers.AuthHandler{
		Store:    store,
		Sessions: sessions,
		Hasher:   hasher,
		Validate: handlers.NewValidator(),
	}
	messageHandler := &handlers.MessageHandler{
		Store:     store,
		Sanitizer: bluemonday.StrictPolicy(),
	}
	adminHandler := &handlers.AdminHandler{
		Store:    store,
		Sessions: sessions.Backend(),
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(maxBody))
	r.Use(middleware.Session(sessions))
	r.Use(middleware.RequestLog)

	// ==========================
	// Operational
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			slog.WarnContext(r.Context(), "readiness check failed", "error", err)
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// API
	// ==========================
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", authHandler.Me)
			r.Get("/messages", messageHandler.ListMessages)
			r.Post("/messages", messageHandler.CreateMessage)
			r.Post("/make-first-admin", adminHandler.MakeFirstAdmin)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(store))

			r.Get("/users", adminHandler.ListUsers)
			r.Delete("/users/{id}", adminHandler.DeleteUser)
			r.Patch("/users/{id}/make-admin", adminHandler.PromoteUser)
		})
	})

	return r, nil
}

func writeStatus(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": s})
}
