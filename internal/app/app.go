// Package app собирает приложение из конфигурации: хранилище, HTTP-сервер
// и корректную остановку по сигналу.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"ya_projects/internal/config"
	"ya_projects/internal/db"
	"ya_projects/internal/logger"
	"ya_projects/internal/storage"
	"ya_projects/internal/storage/memory"
	"ya_projects/internal/storage/postgres"
)

// Stores - хранилища, выбранные по database.driver.
type Stores struct {
	Users    storage.UserStore
	News     storage.NewsStore
	Comments storage.CommentStore
	Notes    storage.NoteStore
	// Pinger проверяет базу для /health.
	Pinger interface {
		Ping(ctx context.Context) error
	}
	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores открывает хранилище и для postgres применяет схему приложения.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Log.Warn("Using in-memory storage, data is lost on restart")
		mem := memory.New()
		return &Stores{Users: mem, News: mem, Comments: mem, Notes: mem, Pinger: mem}, nil
	}

	database, err := db.NewDB(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database.Pool, cfg.App); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Stores{
		Users:    postgres.NewUserRepo(database.SQL),
		News:     postgres.NewNewsRepo(database.SQL),
		Comments: postgres.NewCommentRepo(database.SQL),
		Notes:    postgres.NewNoteRepo(database.SQL),
		Pinger:   database,
		close:    database.Close,
	}, nil
}

// Serve запускает HTTP-сервер и останавливает его по SIGINT/SIGTERM или отмене ctx.
func Serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

// Load читает конфигурацию, фиксирует имя приложения и проверяет её.
func Load(path, appName string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.App = appName
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
