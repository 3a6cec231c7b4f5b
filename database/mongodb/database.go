// Package mongodb implements the item repository on MongoDB, the
// vault's default document store.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/keepsake-io/keepsake"
)

const disconnectTimeout = 10 * time.Second

type database struct {
	client *mongo.Client
	name   string
	tables keepsake.Tables
}

// Connect establishes a connection to MongoDB.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn, name string, tables keepsake.Tables) (*database, error) {
	if name == "" {
		return nil, fmt.Errorf("connect mongo: database name cannot be empty")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &database{
		client: client,
		name:   name,
		tables: tables,
	}, nil
}

func (d *database) collection() *mongo.Collection {
	return d.client.Database(d.name).Collection(d.tables.Items)
}

// Ping verifies the connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Migrate creates the owner index. The collection itself is created
// implicitly by the index build.
func (d *database) Migrate(ctx context.Context) error {
	_, err := d.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().
			SetName("idx_" + d.tables.Items + "_owner"),
	})
	if err != nil {
		return fmt.Errorf("migrate: create owner index: %w", err)
	}
	return nil
}

// Validate checks that the owner index exists.
func (d *database) Validate(ctx context.Context) error {
	cur, err := d.collection().Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("validate: list indexes: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	wantName := "idx_" + d.tables.Items + "_owner"
	for cur.Next(ctx) {
		var spec struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&spec); err != nil {
			return fmt.Errorf("validate: decode index spec: %w", err)
		}
		if spec.Name == wantName {
			return nil
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return fmt.Errorf("validate: index %s does not exist (run migrate first)", wantName)
}

// GetRepo returns the ItemRepo for item operations.
func (d *database) GetRepo() keepsake.ItemRepo {
	return &repo{coll: d.collection()}
}

// Close disconnects the client.
func (d *database) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}
