package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/database/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestRepo creates a repo with a unique table name for test isolation
func setupTestRepo(t *testing.T) (keepsake.ItemRepo, func()) {
	t.Helper()

	ctx := context.Background()

	// Use a unique table name for each test to avoid conflicts
	tableName := fmt.Sprintf("items_%s", getRandomString(t))
	tables := keepsake.Tables{Items: tableName}

	// Connect to in-memory database
	db, err := sqlite.Connect(ctx, ":memory:", tables)
	assert.NoError(t, err, "failed to connect")

	// Migrate the table
	err = db.Migrate(ctx)
	assert.NoError(t, err, "failed to migrate")

	repo := db.GetRepo()

	cleanup := func() {
		_ = db.Close()
	}

	return repo, cleanup
}

func testItem(ownerID, key string) keepsake.Item {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return keepsake.Item{
		OwnerID:     ownerID,
		Kind:        keepsake.KindBinary,
		Title:       "report.pdf",
		MediaType:   "document",
		ContentType: "application/pdf",
		SizeBytes:   1024,
		StorageKey:  key,
		Locator:     "https://files.example.com/" + key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
