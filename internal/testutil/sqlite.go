// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/skillswap/db"
	"github.com/garnizeh/skillswap/internal/db"
)

// NewDB opens a migrated sqlite database in a per-test temp dir and closes it on cleanup.
func NewDB(t testing.TB) *db.DB {
	t.Helper()
	ctx := context.Background()

	d, err := db.New(ctx, db.DSN(filepath.Join(t.TempDir(), "test.db")), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return d
}
