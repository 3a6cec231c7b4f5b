package objectstore

import (
	"context"
	"fmt"

	"github.com/keepsake-io/keepsake"
)

// Config holds the configuration for the payload storage backend.
type Config struct {
	// Type specifies the backend: "s3" or "fs"
	Type string   `mapstructure:"type"`
	S3   S3Config `mapstructure:"s3"`
	FS   FSConfig `mapstructure:"fs"`
}

// S3Config configures the S3-compatible backend.
type S3Config struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	UseSSL        bool   `mapstructure:"use_ssl"`
}

// FSConfig configures the local filesystem backend.
type FSConfig struct {
	Path          string `mapstructure:"path"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// New establishes the configured storage backend.
func New(ctx context.Context, cfg Config) (keepsake.ObjectStore, error) {
	switch cfg.Type {
	case "s3":
		return NewS3(ctx, cfg.S3)
	case "fs":
		return NewFS(cfg.FS)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
