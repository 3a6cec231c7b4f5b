package database

import (
	"context"
	"fmt"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/database/mongodb"
	"github.com/keepsake-io/keepsake/database/postgres"
	"github.com/keepsake-io/keepsake/database/sqlite"
)

// Config holds the configuration for connecting to a metadata backend.
type Config struct {
	// Type specifies the backend: "mongo", "postgres" or "sqlite"
	Type string `mapstructure:"type"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn"`
	// Name is the database name; used by the mongo backend only
	Name string `mapstructure:"name"`
	// Tables holds the table/collection names
	Tables keepsake.Tables `mapstructure:"tables"`
}

// Database is a connected metadata backend.
type Database interface {
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// Migrate creates the required tables/collections and indexes.
	Migrate(ctx context.Context) error
	// Validate checks that the schema matches what the repo expects.
	Validate(ctx context.Context) error
	// GetRepo returns the ItemRepo backed by this connection.
	GetRepo() keepsake.ItemRepo
	// Close releases the connection.
	Close() error
}

// Connect establishes a connection to the configured backend.
// Migration and validation are left to the caller so read-only
// commands can skip them.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	switch cfg.Type {
	case "mongo":
		return mongodb.Connect(ctx, cfg.DSN, cfg.Name, cfg.Tables)
	case "postgres":
		return postgres.Connect(ctx, cfg.DSN, cfg.Tables)
	case "sqlite":
		return sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
