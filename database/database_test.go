package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/database"
)

// Test helpers

func newTestConfig(tableName string) database.Config {
	return database.Config{
		Type:   "sqlite",
		DSN:    ":memory:",
		Tables: keepsake.Tables{Items: tableName},
	}
}

func setupTestDB(t *testing.T, tableName string) database.Database {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(ctx, newTestConfig(tableName))
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func setupTestDBWithMigration(t *testing.T, tableName string) database.Database {
	t.Helper()
	ctx := context.Background()

	db := setupTestDB(t, tableName)

	err := db.Migrate(ctx)
	require.NoError(t, err)

	return db
}

// Tests for Connect routing logic

func TestConnect_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "test_items")

	err := db.Ping(ctx)
	assert.NoError(t, err)
}

func TestConnect_InvalidType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := database.Config{
		Type:   "invalid",
		DSN:    "whatever",
		Tables: keepsake.Tables{Items: "test_items"},
	}

	_, err := database.Connect(ctx, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestConnect_EmptyType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := database.Config{
		Type:   "",
		DSN:    ":memory:",
		Tables: keepsake.Tables{Items: "test_items"},
	}

	_, err := database.Connect(ctx, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestConnect_InvalidTableName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := database.Config{
		Type:   "sqlite",
		DSN:    ":memory:",
		Tables: keepsake.Tables{Items: "items; DROP TABLE users"},
	}

	_, err := database.Connect(ctx, cfg)
	assert.Error(t, err)
}

// Tests for Database interface methods

func TestDatabase_Ping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "ping_test")

	err := db.Ping(ctx)
	assert.NoError(t, err)
}

func TestDatabase_Migrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "migrate_test")

	err := db.Migrate(ctx)
	require.NoError(t, err)

	repo := db.GetRepo()
	require.NotNil(t, repo)

	// Verify table works
	_, err = repo.ListByOwner(ctx, "owner-1")
	assert.NoError(t, err)
}

func TestDatabase_Migrate_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "migrate_idem_test")

	err := db.Migrate(ctx)
	require.NoError(t, err)

	err = db.Migrate(ctx)
	assert.NoError(t, err, "migrate should be idempotent")
}

func TestDatabase_Validate_BeforeMigration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "validate_before_test")

	err := db.Validate(ctx)
	assert.Error(t, err, "validate should fail without tables")
}

func TestDatabase_Validate_AfterMigration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBWithMigration(t, "validate_after_test")

	err := db.Validate(ctx)
	assert.NoError(t, err, "validate should pass after migration")
}

func TestDatabase_GetRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBWithMigration(t, "getrepo_test")

	repo := db.GetRepo()
	require.NotNil(t, repo)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	id, err := repo.Insert(ctx, keepsake.Item{
		OwnerID:     "owner-1",
		Kind:        keepsake.KindBinary,
		Title:       "file.txt",
		MediaType:   "text",
		ContentType: "text/plain",
		SizeBytes:   100,
		StorageKey:  "owner-1/file.txt",
		Locator:     "https://files.example.com/owner-1/file.txt",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	item, err := repo.FindOne(ctx, "owner-1", id)
	require.NoError(t, err)
	assert.Equal(t, "owner-1/file.txt", item.StorageKey)
}

func TestDatabase_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := newTestConfig("close_test")
	db, err := database.Connect(ctx, cfg)
	require.NoError(t, err)

	err = db.Close()
	assert.NoError(t, err)

	err = db.Ping(ctx)
	assert.Error(t, err, "ping should fail after close")
}

// Note: backend-specific tests live in the database/postgres and
// database/mongodb packages, each against a real container.
