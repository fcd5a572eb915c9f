package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	applog "fintrack/internal/log"
	"fintrack/internal/storage"
	"fintrack/internal/storage/file"
	"fintrack/internal/storage/memory"
	"fintrack/internal/storage/sqlite"
)

type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

func (f *DefaultFactory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case Memory:
		f.logger.InfoContext(ctx, "Initialized memory backend")
		return &Result{Backend: memory.New()}, nil

	case File:
		store, err := file.New(cfg.DataDir, cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized file backend", "path", store.Path())
		return &Result{Backend: store}, nil

	case SQLite:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath, cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
		}
		attrs := []any{"db_path", cfg.SQLiteDBPath, "key", cfg.Key}
		updated, err := repo.UpdatedAt(ctx)
		switch {
		case err == nil:
			attrs = append(attrs, "last_saved", updated.UTC().Format(time.RFC3339))
		case !errors.Is(err, storage.ErrNotFound):
			f.logger.WarnContext(ctx, "Could not read SQLite last-saved time", applog.FieldError, err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", attrs...)
		return &Result{Backend: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
