package mongodb_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	mongocontainer "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/database/mongodb"
)

const testDatabaseName = "testdb"

var (
	testDSN     string
	testClient  *mongo.Client
	testOnce    sync.Once
	testCleanup func()
)

// getSharedTestDSN returns the connection string of a shared MongoDB
// container. Reusing one container keeps the suite fast; tests isolate
// through unique collection names instead.
func getSharedTestDSN(t *testing.T) string {
	t.Helper()

	testOnce.Do(func() {
		ctx := context.Background()

		container, err := mongocontainer.Run(ctx, "mongo:8")
		if err != nil {
			t.Fatalf("failed to start mongo container: %v", err)
		}

		testCleanup = func() {
			if testClient != nil {
				_ = testClient.Disconnect(context.Background())
			}
			if err := testcontainers.TerminateContainer(container); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		dsn, err := container.ConnectionString(ctx)
		if err != nil {
			testCleanup()
			t.Fatalf("failed to get connection string: %v", err)
		}

		client, err := mongo.Connect(options.Client().ApplyURI(dsn))
		if err != nil {
			testCleanup()
			t.Fatalf("could not connect to database: %v", err)
		}

		testDSN = dsn
		testClient = client
	})

	return testDSN
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// dropCollection drops the named collection for test cleanup.
func dropCollection(ctx context.Context, name string) error {
	return testClient.Database(testDatabaseName).Collection(name).Drop(ctx)
}

// setupTestRepo creates a repo with a unique collection name for test isolation.
func setupTestRepo(t *testing.T) (keepsake.ItemRepo, func()) {
	t.Helper()

	dsn := getSharedTestDSN(t)
	ctx := context.Background()

	// Use a unique collection name for each test to avoid conflicts
	collName := fmt.Sprintf("items_%s", getRandomString(t))
	tables := keepsake.Tables{Items: collName}

	db, err := mongodb.Connect(ctx, dsn, testDatabaseName, tables)
	assert.NoError(t, err, "failed to connect")

	err = db.Migrate(ctx)
	assert.NoError(t, err, "failed to migrate")

	cleanup := func() {
		_ = db.Close()
		// Drop the collection after the test
		_ = dropCollection(ctx, collName)
	}

	return db.GetRepo(), cleanup
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
