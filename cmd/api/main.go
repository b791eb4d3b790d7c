package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crucial707/chatboard/internal/config"
	"github.com/crucial707/chatboard/internal/db"
	"github.com/crucial707/chatboard/internal/metrics"
	"github.com/crucial707/chatboard/internal/repo"
	"github.com/crucial707/chatboard/internal/scheduler"
	"github.com/crucial707/chatboard/internal/session"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional.
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessionStore := session.NewMemoryStore(cfg.SessionMaxAge)
	sessions := session.NewManager(sessionStore, session.Options{
		Secret: cfg.SessionSecret,
		Secure: cfg.SecureCookie,
		MaxAge: cfg.SessionMaxAge,
	})

	sched := scheduler.New()
	err = sched.Add(ctx, scheduler.Job{
		Name:     "session-sweep",
		Interval: cfg.SessionSweepInterval,
		Run: func(ctx context.Context) {
			if n := sessionStore.Sweep(); n > 0 {
				slog.InfoContext(ctx, "expired sessions pruned", "count", n)
			}
			metrics.SetActiveSessions(sessionStore.Len())
		},
	})
	if err != nil {
		return err
	}
	sched.Start()

	router, err := newRouter(store, sessions, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
		slog.Info("server listening",
			"port", cfg.Port,
			"tls", useTLS,
			"store", cfg.StoreDriver,
			"env", cfg.Env)
		if useTLS {
			serveErr <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openStore returns the configured Store and a func releasing its resources.
func openStore(ctx context.Context, cfg config.Config) (repo.Store, func(), error) {
	if cfg.StoreDriver != config.StorePostgres {
		slog.Warn("using in-memory store; data is lost on restart")
		return repo.NewMemoryStore(), func() {}, nil
	}

	// Connect to database FIRST
	database, err := db.Connect(ctx,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		db.Options{MaxOpenConns: cfg.DBMaxOpenConns, MaxIdleConns: cfg.DBMaxIdleConns},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Run(cfg.DatabaseURL()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return repo.NewPostgresStore(database), closeDB(database), nil
}

func closeDB(database *sql.DB) func() {
	return func() {
		if err := database.Close(); err != nil {
			slog.Error("close database", "error", err)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
