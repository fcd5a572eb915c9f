package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/storage"
)

func TestRepositoryReadWrite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "fintrack.db")

	repo, err := NewRepository(dbPath, "fintrack-data")
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	defer repo.Close()

	if _, err := repo.Read(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.UpdatedAt(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for UpdatedAt, got %v", err)
	}

	for _, blob := range []string{`{"categories":["A"]}`, `{"categories":["A","B"]}`} {
		if err := repo.Write(ctx, []byte(blob)); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := repo.Read(ctx)
		if err != nil || string(got) != blob {
			t.Fatalf("expected %q, got %q (err=%v)", blob, got, err)
		}
	}
	if ts, err := repo.UpdatedAt(ctx); err != nil || ts.IsZero() {
		t.Fatalf("expected updated_at, got %v (err=%v)", ts, err)
	}
}

func TestRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	repo, err := NewRepository(dbPath, "k")
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	if err := repo.Write(ctx, []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo.Close()

	// Migrations are idempotent on reopen.
	repo, err = NewRepository(dbPath, "k")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	got, err := repo.Read(ctx)
	if err != nil || string(got) != "{}" {
		t.Fatalf("unexpected read after reopen: %q err=%v", got, err)
	}

	// Other keys are isolated.
	other, err := NewRepository(dbPath, "other")
	if err != nil {
		t.Fatalf("open other key: %v", err)
	}
	defer other.Close()
	if _, err := other.Read(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other key, got %v", err)
	}
}

func TestNewRepositoryRejectsEmptyKey(t *testing.T) {
	if _, err := NewRepository(filepath.Join(t.TempDir(), "x.db"), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
