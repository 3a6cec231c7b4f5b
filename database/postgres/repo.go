// Package postgres implements the item repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keepsake-io/keepsake"
)

const itemColumns = "id, owner_id, kind, title, media_type, content_type, size_bytes, storage_key, storage_url, body, created_at, updated_at"

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables keepsake.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: tables.Items}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Insert(ctx context.Context, item keepsake.Item) (string, error) {
	id := uuid.NewString()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, kind, title, media_type, content_type, size_bytes, storage_key, storage_url, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tableName)

	_, err := r.pool.Exec(ctx, query,
		id, item.OwnerID, string(item.Kind), item.Title, item.MediaType, item.ContentType,
		item.SizeBytes, item.StorageKey, item.Locator, item.Body, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}

	return id, nil
}

func (r *Repo) FindOne(ctx context.Context, ownerID, id string) (keepsake.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND id = $2
	`, itemColumns, r.tableName)

	item, err := scanItem(r.pool.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return keepsake.Item{}, keepsake.ErrNotFound
		}
		return keepsake.Item{}, fmt.Errorf("find one: %w", err)
	}

	return item, nil
}

func (r *Repo) UpdateFields(ctx context.Context, ownerID, id string, update keepsake.ItemUpdate) (int64, error) {
	set := []string{"updated_at = $3"}
	args := []any{ownerID, id, update.UpdatedAt}

	if update.Title != nil {
		args = append(args, *update.Title)
		set = append(set, "title = $"+strconv.Itoa(len(args)))
	}
	if update.Body != nil {
		args = append(args, *update.Body)
		set = append(set, "body = $"+strconv.Itoa(len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE owner_id = $1 AND id = $2
	`, r.tableName, strings.Join(set, ", "))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update fields: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]keepsake.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, itemColumns, r.tableName)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer rows.Close()

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

func (r *Repo) ListKeys(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT storage_key FROM %s`, r.tableName)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

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

func scanItem(row pgx.Row) (keepsake.Item, error) {
	var item keepsake.Item
	var kind string

	err := row.Scan(
		&item.ID, &item.OwnerID, &kind, &item.Title, &item.MediaType, &item.ContentType,
		&item.SizeBytes, &item.StorageKey, &item.Locator, &item.Body, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return keepsake.Item{}, err
	}

	item.Kind = keepsake.ItemKind(kind)
	return item, nil
}
