package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/config"
	"github.com/keepsake-io/keepsake/database"
	"github.com/keepsake-io/keepsake/objectstore"
)

// connectDatabase connects and pings the configured metadata backend.
func connectDatabase(ctx context.Context, cfg *config.Config) (database.Database, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("connected to database", "type", cfg.Database.Type)
	return db, nil
}

// connectStorage connects the configured payload store.
func connectStorage(ctx context.Context, cfg *config.Config) (keepsake.ObjectStore, error) {
	store, err := objectstore.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}

	slog.Info("connected to storage", "type", cfg.Storage.Type)
	return store, nil
}
