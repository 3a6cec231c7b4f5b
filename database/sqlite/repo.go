// Package sqlite implements the item repository using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keepsake-io/keepsake"
)

const itemColumns = "id, owner_id, kind, title, media_type, content_type, size_bytes, storage_key, storage_url, body, created_at, updated_at"

type repo struct {
	db        *sql.DB
	tableName string
}

func (r *repo) Insert(ctx context.Context, item keepsake.Item) (string, error) {
	id := uuid.NewString()

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, owner_id, kind, title, media_type, content_type, size_bytes, storage_key, storage_url, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.tableName)

	_, err := r.db.ExecContext(ctx, query,
		id, item.OwnerID, string(item.Kind), item.Title, item.MediaType, item.ContentType,
		item.SizeBytes, item.StorageKey, item.Locator, item.Body,
		item.CreatedAt.UTC().Format(time.RFC3339Nano), item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}

	return id, nil
}

func (r *repo) FindOne(ctx context.Context, ownerID, id string) (keepsake.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s
		FROM %s
		WHERE owner_id = ? AND id = ?`, itemColumns, r.tableName)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return keepsake.Item{}, keepsake.ErrNotFound
		}
		return keepsake.Item{}, fmt.Errorf("find one: %w", err)
	}

	return item, nil
}

func (r *repo) UpdateFields(ctx context.Context, ownerID, id string, update keepsake.ItemUpdate) (int64, error) {
	set := []string{"updated_at = ?"}
	args := []any{update.UpdatedAt.UTC().Format(time.RFC3339Nano)}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Body != nil {
		set = append(set, "body = ?")
		args = append(args, *update.Body)
	}

	args = append(args, ownerID, id)

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET %s
		WHERE owner_id = ? AND id = ?`, r.tableName, strings.Join(set, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update fields: %w", err)
	}

	matched, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update fields: rows affected: %w", err)
	}

	return matched, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]keepsake.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s
		FROM %s
		WHERE owner_id = ?
		ORDER BY created_at, id`, itemColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]keepsake.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list by owner: scan: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list by owner: rows: %w", err)
	}

	return items, nil
}

func (r *repo) ListKeys(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT storage_key FROM %s`, r.tableName) //nolint:gosec // table name is validated

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("list keys: scan: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: rows: %w", err)
	}

	return keys, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (keepsake.Item, error) {
	var item keepsake.Item
	var kind, createdAt, updatedAt string

	err := row.Scan(
		&item.ID, &item.OwnerID, &kind, &item.Title, &item.MediaType, &item.ContentType,
		&item.SizeBytes, &item.StorageKey, &item.Locator, &item.Body, &createdAt, &updatedAt,
	)
	if err != nil {
		return keepsake.Item{}, err
	}

	item.Kind = keepsake.ItemKind(kind)

	item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return keepsake.Item{}, fmt.Errorf("parse created_at: %w", err)
	}

	item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return keepsake.Item{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return item, nil
}
