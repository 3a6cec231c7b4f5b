// Package config provides configuration loading and validation for keepsake.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (KEEPSAKE_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with KEEPSAKE_ prefix:
//   - server.port → KEEPSAKE_SERVER_PORT
//   - database.type → KEEPSAKE_DATABASE_TYPE
//   - auth.session_secret → KEEPSAKE_AUTH_SESSION_SECRET
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and max_upload_size
//   - Database: type (mongo/postgres/sqlite), DSN, name, and table names
//   - Storage: type (s3/fs) and per-backend settings
//   - Auth: the session token signing secret
//   - Sweep: grace period for orphaned object reclamation
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Log level must be debug, info, warn, or error
//
// The session secret is deliberately not validated here; commands that
// serve authenticated traffic check for it themselves so offline commands
// can run without one.
package config
