package backend

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
	"fintrack/internal/storage/file"
	"fintrack/internal/storage/memory"
	"fintrack/internal/storage/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	got, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		StorageKey:   "k",
		DataDir:      "d",
		SQLiteDBPath: "p.db",
	})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	want := Config{Type: SQLite, Key: "k", DataDir: "d", SQLiteDBPath: "p.db"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory needs nothing", Config{Type: Memory}, false},
		{"file", Config{Type: File, Key: "k", DataDir: "d"}, false},
		{"file without dir", Config{Type: File, Key: "k"}, true},
		{"file without key", Config{Type: File, DataDir: "d"}, true},
		{"sqlite", Config{Type: SQLite, Key: "k", SQLiteDBPath: "p"}, false},
		{"sqlite without path", Config{Type: SQLite, Key: "k"}, true},
		{"unknown", Config{Type: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactoryCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	tests := []struct {
		name  string
		cfg   Config
		check func(t *testing.T, b storage.Backend)
	}{
		{
			name: "memory",
			cfg:  Config{Type: Memory},
			check: func(t *testing.T, b storage.Backend) {
				if _, ok := b.(*memory.Store); !ok {
					t.Fatalf("got %T", b)
				}
			},
		},
		{
			name: "file",
			cfg:  Config{Type: File, Key: "ledger", DataDir: filepath.Join(dir, "files")},
			check: func(t *testing.T, b storage.Backend) {
				fs, ok := b.(*file.Store)
				if !ok {
					t.Fatalf("got %T", b)
				}
				if want := filepath.Join(dir, "files", "ledger.json"); fs.Path() != want {
					t.Fatalf("path = %s, want %s", fs.Path(), want)
				}
			},
		},
		{
			name: "sqlite",
			cfg:  Config{Type: SQLite, Key: "ledger", SQLiteDBPath: filepath.Join(dir, "db", "fintrack.db")},
			check: func(t *testing.T, b storage.Backend) {
				if _, ok := b.(*sqlite.Repository); !ok {
					t.Fatalf("got %T", b)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Create(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			defer res.Close()
			tt.check(t, res.Backend)

			if _, err := res.Backend.Read(ctx); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("fresh backend Read err = %v, want ErrNotFound", err)
			}
			if err := res.Backend.Write(ctx, []byte(`{"transactions":[]}`)); err != nil {
				t.Fatalf("Write: %v", err)
			}
			data, err := res.Backend.Read(ctx)
			if err != nil || string(data) != `{"transactions":[]}` {
				t.Fatalf("Read = %q, %v", data, err)
			}
		})
	}
}

func TestFactoryCreate_SQLiteLogsLastSaved(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Type: SQLite, Key: "ledger", SQLiteDBPath: filepath.Join(t.TempDir(), "fintrack.db")}
	var buf bytes.Buffer
	f := NewFactory(applog.New(applog.Config{Output: &buf}))

	res, err := f.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if strings.Contains(buf.String(), "last_saved") {
		t.Fatalf("empty database logged a save time: %s", buf.String())
	}
	if err := res.Backend.Write(ctx, []byte(`{}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := res.Close(); err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	res, err = f.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer res.Close()
	if out := buf.String(); !strings.Contains(out, "Initialized SQLite backend") || !strings.Contains(out, "last_saved=") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestFactoryCreateRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).Create(context.Background(), Config{Type: File}); err == nil {
		t.Fatal("expected error")
	}
}

func TestResultCloseWithoutCleanup(t *testing.T) {
	var r *Result
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := (&Result{}).Close(); err != nil {
		t.Fatal(err)
	}
}
