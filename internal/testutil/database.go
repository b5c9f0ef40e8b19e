// Package testutil provides shared helpers for tests that need a real
// storage backend.
package testutil

import (
	"context"
	"testing"

	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite storage seeded with the
// standard category set, registered for cleanup with the test.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// MustCategoryID returns the id of a seeded category or fails the test.
func MustCategoryID(t *testing.T, store *storage.SQLiteStorage, name string) int64 {
	t.Helper()

	cat, err := store.CategoryByName(context.Background(), name)
	if err != nil {
		t.Fatalf("category %q not found: %v", name, err)
	}
	return cat.ID
}

// InsertTransactions persists the given transactions or fails the test.
func InsertTransactions(t *testing.T, store *storage.SQLiteStorage, transactions []model.Transaction) {
	t.Helper()

	if _, err := store.InsertTransactions(context.Background(), transactions); err != nil {
		t.Fatalf("failed to insert test transactions: %v", err)
	}
}
