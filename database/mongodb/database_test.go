package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/database/mongodb"
)

func TestConnect(t *testing.T) {
	dsn := getSharedTestDSN(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		tables := keepsake.Tables{Items: "items"}
		db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
		assert.NoError(t, err)
		assert.NotNil(t, db)
		defer func() { _ = db.Close() }()

		// Verify connection is actually usable
		err = db.Ping(ctx)
		assert.NoError(t, err, "ping should succeed after connect")
	})

	t.Run("error - empty database name", func(t *testing.T) {
		tables := keepsake.Tables{Items: "items"}
		_, err := mongodb.Connect(ctx, dsn, "", tables)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database name")
	})
}

func TestDatabase_Migrate(t *testing.T) {
	dsn := getSharedTestDSN(t)
	ctx := context.Background()

	t.Run("success - creates owner index", func(t *testing.T) {
		collName := "migrate_test_" + getRandomString(t)
		tables := keepsake.Tables{Items: collName}
		db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
		assert.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = dropCollection(ctx, collName)
		}()

		err = db.Migrate(ctx)
		assert.NoError(t, err, "migrate should succeed")

		// Verify the collection is usable through the repo
		repo := db.GetRepo()
		_, err = repo.ListByOwner(ctx, "owner-1")
		assert.NoError(t, err, "repo should work after migration")
	})

	t.Run("idempotent - can run multiple times", func(t *testing.T) {
		collName := "migrate_idem_" + getRandomString(t)
		tables := keepsake.Tables{Items: collName}
		db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
		assert.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = dropCollection(ctx, collName)
		}()

		err = db.Migrate(ctx)
		assert.NoError(t, err, "first migrate should succeed")

		err = db.Migrate(ctx)
		assert.NoError(t, err, "second migrate should succeed")
	})
}

func TestDatabase_Validate(t *testing.T) {
	dsn := getSharedTestDSN(t)
	ctx := context.Background()

	t.Run("success - owner index present after migrate", func(t *testing.T) {
		collName := "validate_test_" + getRandomString(t)
		tables := keepsake.Tables{Items: collName}
		db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
		assert.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = dropCollection(ctx, collName)
		}()

		err = db.Migrate(ctx)
		assert.NoError(t, err)

		err = db.Validate(ctx)
		assert.NoError(t, err, "validate should succeed after migrate")
	})

	t.Run("error - owner index missing", func(t *testing.T) {
		tables := keepsake.Tables{Items: "never_migrated_" + getRandomString(t)}
		db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
		assert.NoError(t, err)
		defer func() { _ = db.Close() }()

		// Don't migrate - the index won't exist
		err = db.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestDatabase_Close(t *testing.T) {
	dsn := getSharedTestDSN(t)
	ctx := context.Background()

	tables := keepsake.Tables{Items: "close_test"}
	db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
	assert.NoError(t, err)

	err = db.Close()
	assert.NoError(t, err, "close should succeed")

	// After close, operations should fail
	err = db.Ping(ctx)
	assert.Error(t, err, "ping should fail after close")
}

// =============================================================================
// Repo Tests (via ItemRepo interface)
// =============================================================================

func TestRepo_Insert(t *testing.T) {
	t.Run("success - assigns id and stores all fields", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		item := testItem("owner-1", "owner-1/report.pdf")
		id, err := repo.Insert(ctx, item)
		assert.NoError(t, err, "insert failed")
		assert.NotEmpty(t, id, "expected assigned id")

		got, err := repo.FindOne(ctx, "owner-1", id)
		assert.NoError(t, err, "find after insert failed")
		assert.Equal(t, id, got.ID)
		assert.Equal(t, item.OwnerID, got.OwnerID)
		assert.Equal(t, item.Kind, got.Kind)
		assert.Equal(t, item.Title, got.Title)
		assert.Equal(t, item.SizeBytes, got.SizeBytes)
		assert.Equal(t, item.StorageKey, got.StorageKey)
		assert.Equal(t, item.Locator, got.Locator)
		assert.True(t, item.CreatedAt.Equal(got.CreatedAt), "created_at should round-trip")
	})

	t.Run("success - ids are distinct", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		first, err := repo.Insert(ctx, testItem("owner-1", "owner-1/a.pdf"))
		assert.NoError(t, err)
		second, err := repo.Insert(ctx, testItem("owner-1", "owner-1/b.pdf"))
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestRepo_FindOne(t *testing.T) {
	t.Run("error - not found", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		_, err := repo.FindOne(ctx, "owner-1", "no-such-id")
		assert.Error(t, err, "expected error for missing item")
		assert.ErrorIs(t, err, keepsake.ErrNotFound, "expected ErrNotFound")
	})

	t.Run("error - not found for another owner's item", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		id, err := repo.Insert(ctx, testItem("owner-1", "owner-1/report.pdf"))
		assert.NoError(t, err, "insert failed")

		_, err = repo.FindOne(ctx, "owner-2", id)
		assert.Error(t, err, "expected error when owner does not match")
		assert.ErrorIs(t, err, keepsake.ErrNotFound, "expected ErrNotFound")
	})
}

func TestRepo_UpdateFields(t *testing.T) {
	title := "new title"
	body := "new body"

	t.Run("success - updates title and body", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		item := testItem("owner-1", "owner-1/text-1735732800000.txt")
		item.Kind = keepsake.KindText
		item.Body = "old body"
		id, err := repo.Insert(ctx, item)
		assert.NoError(t, err)

		later := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
		matched, err := repo.UpdateFields(ctx, "owner-1", id, keepsake.ItemUpdate{
			Title:     &title,
			Body:      &body,
			UpdatedAt: later,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), matched)

		got, err := repo.FindOne(ctx, "owner-1", id)
		assert.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, body, got.Body)
		assert.True(t, later.Equal(got.UpdatedAt), "updated_at should advance")
	})

	t.Run("success - matched even when values unchanged", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		item := testItem("owner-1", "owner-1/report.pdf")
		id, err := repo.Insert(ctx, item)
		assert.NoError(t, err)

		same := item.Title
		matched, err := repo.UpdateFields(ctx, "owner-1", id, keepsake.ItemUpdate{Title: &same, UpdatedAt: item.UpdatedAt})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), matched, "matched count should not depend on value change")
	})

	t.Run("zero matched - unknown id", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		matched, err := repo.UpdateFields(ctx, "owner-1", "no-such-id", keepsake.ItemUpdate{Title: &title, UpdatedAt: time.Now().UTC()})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), matched)
	})

	t.Run("zero matched - another owner's item", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		id, err := repo.Insert(ctx, testItem("owner-1", "owner-1/report.pdf"))
		assert.NoError(t, err)

		matched, err := repo.UpdateFields(ctx, "owner-2", id, keepsake.ItemUpdate{Title: &title, UpdatedAt: time.Now().UTC()})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), matched)

		got, err := repo.FindOne(ctx, "owner-1", id)
		assert.NoError(t, err)
		assert.Equal(t, "report.pdf", got.Title, "item should be untouched")
	})
}

func TestRepo_ListByOwner(t *testing.T) {
	t.Run("success - lists only the owner's items in creation order", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		first := testItem("owner-1", "owner-1/a.pdf")
		second := testItem("owner-1", "owner-1/b.pdf")
		second.CreatedAt = first.CreatedAt.Add(time.Minute)
		second.UpdatedAt = second.CreatedAt
		other := testItem("owner-2", "owner-2/c.pdf")

		_, err := repo.Insert(ctx, first)
		assert.NoError(t, err)
		_, err = repo.Insert(ctx, second)
		assert.NoError(t, err)
		_, err = repo.Insert(ctx, other)
		assert.NoError(t, err)

		items, err := repo.ListByOwner(ctx, "owner-1")
		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "owner-1/a.pdf", items[0].StorageKey)
		assert.Equal(t, "owner-1/b.pdf", items[1].StorageKey)
	})

	t.Run("success - empty result", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		items, err := repo.ListByOwner(ctx, "owner-1")
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestRepo_ListKeys(t *testing.T) {
	t.Run("success - keys across all owners", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ctx := context.Background()

		_, err := repo.Insert(ctx, testItem("owner-1", "owner-1/a.pdf"))
		assert.NoError(t, err)
		_, err = repo.Insert(ctx, testItem("owner-2", "owner-2/b.pdf"))
		assert.NoError(t, err)

		keys, err := repo.ListKeys(ctx)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"owner-1/a.pdf", "owner-2/b.pdf"}, keys)
	})
}
