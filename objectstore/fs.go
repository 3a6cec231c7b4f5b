package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/keepsake-io/keepsake"
)

// FS stores payloads under a sandboxed local directory. Writes are atomic
// using temp files and rename. The root prevents path traversal.
type FS struct {
	root       *os.Root
	publicBase string
}

// NewFS opens (creating if needed) the configured directory as the store root.
func NewFS(cfg FSConfig) (*FS, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	root, err := os.OpenRoot(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open store root: %w", err)
	}

	return &FS{
		root:       root,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Put atomically writes content to the given key using a temp file and rename.
// It creates intermediate directories as needed. The operation respects
// context cancellation.
func (s *FS) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (string, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return "", fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(t.Name()); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := io.Copy(t, &ctxReader{ctx: ctx, r: content}); err != nil {
		return "", fmt.Errorf("could not copy contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return "", fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := filepath.Dir(key)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return "", fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return "", fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return s.publicBase + "/" + key, nil
}

// List recursively walks the store root and returns every object with its
// key, size and modification time.
func (s *FS) List(ctx context.Context) ([]keepsake.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var objects []keepsake.ObjectInfo

	if err := s.walkDir(ctx, ".", &objects); err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	return objects, nil
}

func (s *FS) walkDir(ctx context.Context, dir string, objects *[]keepsake.ObjectInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return err
	}

	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}

		entryPath := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if err := s.walkDir(ctx, entryPath, objects); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}

		*objects = append(*objects, keepsake.ObjectInfo{
			Key:          filepath.ToSlash(entryPath),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}

	return nil
}

// Remove deletes the object at key.
func (s *FS) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not remove object: %w", err)
	}
	return nil
}

// FS exposes the store root for read-only serving of stored objects.
func (s *FS) FS() fs.FS {
	return s.root.FS()
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
