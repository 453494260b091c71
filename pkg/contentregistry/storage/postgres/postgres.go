// Package postgres provides a storage adapter backed by PostgreSQL. Items
// are stored as JSONB rows keyed by content type and item id.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tendant/content-registry/pkg/contentregistry"
)

// DB is the subset of pgxpool.Pool the adapter needs. Accepting the
// interface keeps the adapter usable inside transactions.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config options for the Postgres adapter
type Config struct {
	// ContentType scopes all rows touched by this adapter instance.
	ContentType string

	// Table is the fully qualified item table (default: content.item).
	Table string
}

// Store implements contentregistry.Storage on a Postgres table.
type Store struct {
	db          DB
	contentType string
	table       string
}

// New creates a Postgres-backed store for one content type
func New(db DB, cfg Config) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if cfg.ContentType == "" {
		return nil, errors.New("content type is required")
	}
	if cfg.Table == "" {
		cfg.Table = "content.item"
	}
	return &Store{
		db:          db,
		contentType: cfg.ContentType,
		table:       cfg.Table,
	}, nil
}

func (s *Store) Get(ctx context.Context, version contentregistry.VersionSpec, id string, options map[string]any) (any, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE content_type = $1 AND id = $2`, s.table)

	var raw []byte
	err := s.db.QueryRow(ctx, query, s.contentType, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, version contentregistry.VersionSpec, id string, fields map[string]any) (any, error) {
	if id == "" {
		id = uuid.NewString()
	}

	item := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		item[k] = v
	}
	item["id"] = id

	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode item %s: %w", id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (content_type, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (content_type, id) DO NOTHING
	`, s.table)

	tag, err := s.db.Exec(ctx, query, s.contentType, id, raw)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("item already exists: %s", id)
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, version contentregistry.VersionSpec, id string, fields map[string]any) (any, error) {
	item := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		item[k] = v
	}
	item["id"] = id

	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode item %s: %w", id, err)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET data = $3, updated_at = now()
		WHERE content_type = $1 AND id = $2
	`, s.table)

	tag, err := s.db.Exec(ctx, query, s.contentType, id, raw)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}
	return item, nil
}

func (s *Store) Delete(ctx context.Context, version contentregistry.VersionSpec, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE content_type = $1 AND id = $2`, s.table)

	tag, err := s.db.Exec(ctx, query, s.contentType, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}
	return nil
}
