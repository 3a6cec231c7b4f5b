package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/config"
	keepsakehttp "github.com/keepsake-io/keepsake/http"
	"github.com/keepsake-io/keepsake/objectstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the keepsake HTTP server.`,
	RunE:  runServe,
}

var serveAutoMigrate bool

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port")
	serveCmd.Flags().BoolVar(&serveAutoMigrate, "auto-migrate", false, "run database migrations on startup")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	if cfg.Auth.SessionSecret == "" {
		return errors.New("auth.session_secret is required (env: KEEPSAKE_AUTH_SESSION_SECRET)")
	}

	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if serveAutoMigrate {
		if err = db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		slog.Info("database migration complete")
	}

	if err = db.Validate(ctx); err != nil {
		return fmt.Errorf("validate database schema: %w", err)
	}

	store, err := connectStorage(ctx, cfg)
	if err != nil {
		return err
	}

	service := keepsake.NewService(db.GetRepo(), store)

	handlerConfig := keepsakehttp.HandlerConfig{
		SessionSecret: cfg.Auth.SessionSecret,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
	}

	// The filesystem store has no public endpoint of its own, so serve
	// its objects directly.
	if fsStore, ok := store.(*objectstore.FS); ok {
		handlerConfig.Objects = http.FileServerFS(fsStore.FS())
	}

	handler := keepsakehttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "storage", cfg.Storage.Type)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
