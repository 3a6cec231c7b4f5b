// Package database provides a unified interface for connecting to metadata backends.
//
// # Supported Backends
//
//   - MongoDB: the default document store, one document per item
//   - PostgreSQL: relational backend using a pgx connection pool
//   - SQLite: lightweight backend for development and single-node deployments
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "mongo",
//	    DSN:    "mongodb://localhost:27017",
//	    Name:   "keepsake",
//	    Tables: keepsake.Tables{Items: "items"},
//	}
//
//	db, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer func() { _ = db.Close() }()
//
//	repo := db.GetRepo()
//
// Migration and schema validation are explicit (db.Migrate, db.Validate)
// so commands that only read can skip them.
package database
