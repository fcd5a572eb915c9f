// Package backend builds the storage adapter selected by configuration.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Type names a storage adapter.
type Type string

const (
	Memory Type = "memory"
	File   Type = "file"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Memory, File, SQLite:
		return true
	default:
		return false
	}
}

// Types returns every supported adapter.
func Types() []Type {
	return []Type{Memory, File, SQLite}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

type Result struct {
	Backend storage.Backend
	Cleanup CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	Create(ctx context.Context, cfg Config) (*Result, error)
}

type Config struct {
	Type Type

	// Key identifies the snapshot inside the adapter.
	Key string

	// File
	DataDir string

	// SQLite
	SQLiteDBPath string
}

// FromAppConfig extracts the backend settings from the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         t,
		Key:          appConfig.StorageKey,
		DataDir:      appConfig.DataDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type != Memory && c.Key == "" {
		return fmt.Errorf("storage key is required for %s backend", c.Type)
	}
	switch c.Type {
	case File:
		if c.DataDir == "" {
			return fmt.Errorf("data directory is required for file backend")
		}
	case SQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	}
	return nil
}
