package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/g960059/cch/internal/db"
	"github.com/g960059/cch/internal/model"
)

func NewStore(t *testing.T) (*db.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	store, err := db.Open(ctx, filepath.Join(t.TempDir(), "cch-test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	if err := db.ApplyMigrations(ctx, store.DB()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return store, ctx
}

func SeedSession(t *testing.T, store *db.Store, ctx context.Context, id, title, pwd string, createdAt time.Time) model.Session {
	t.Helper()
	session := model.Session{
		ID:        id,
		Title:     title,
		Pwd:       pwd,
		CreatedAt: createdAt,
	}
	if err := store.UpsertSession(ctx, session); err != nil {
		t.Fatalf("seed session %s: %v", id, err)
	}
	return session
}
