// Package bundoc implements the document store over a bun database. Records
// are addressed by (collection, key) and hold their payload as a JSON column,
// so profile and project documents stay schema-less the way the synchronizer
// expects them.
package bundoc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/workbridge/go-authsync"
)

// Document is a single stored record.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:doc"`

	ID         uuid.UUID      `bun:"id,pk,notnull" json:"id"`
	Collection string         `bun:"collection,notnull,unique:doc_collection_key" json:"collection"`
	Key        string         `bun:"key,notnull,unique:doc_collection_key" json:"key"`
	Data       map[string]any `bun:"data,type:jsonb" json:"data"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Store implements authsync.DocumentStore.
type Store struct {
	db     *bun.DB
	logger authsync.Logger
}

var _ authsync.DocumentStore = (*Store)(nil)

// Option customizes store construction.
type Option func(*Store)

// WithLogger overrides the default logger.
func WithLogger(logger authsync.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a store over the given database.
func New(db *bun.DB, opts ...Option) *Store {
	if db == nil {
		panic("bundoc: db is required")
	}
	store := &Store{
		db:     db,
		logger: authsync.NewDefaultLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Migrate creates the documents table when it does not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*Document)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Get returns the document at (collection, key).
func (s *Store) Get(ctx context.Context, collection, key string) (map[string]any, error) {
	record := &Document{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.collection = ?", collection).
		Where("?TableAlias.key = ?", key).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authsync.ErrDocumentNotFound.WithMetadata(map[string]any{
				"collection": collection,
				"key":        key,
			})
		}
		return nil, err
	}

	return record.Data, nil
}

// Set writes the full document at (collection, key), replacing any previous
// payload.
func (s *Store) Set(ctx context.Context, collection, key string, doc map[string]any) error {
	now := time.Now()
	record := &Document{
		ID:         uuid.New(),
		Collection: collection,
		Key:        key,
		Data:       doc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (collection, key) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// Update merges the given fields into an existing document. A missing
// document is an error, unlike Set.
func (s *Store) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	record := &Document{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.collection = ?", collection).
		Where("?TableAlias.key = ?", key).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return authsync.ErrDocumentNotFound.WithMetadata(map[string]any{
				"collection": collection,
				"key":        key,
			})
		}
		return err
	}

	if record.Data == nil {
		record.Data = map[string]any{}
	}
	for k, v := range fields {
		record.Data[k] = v
	}
	record.UpdatedAt = time.Now()

	_, err = s.db.NewUpdate().
		Model(record).
		Column("data", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// Query returns the documents in a collection whose payload field equals the
// given value.
func (s *Store) Query(ctx context.Context, collection, field string, value any) ([]map[string]any, error) {
	var records []Document
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.collection = ?", collection).
		Where("json_extract(?TableAlias.data, ?) = ?", "$."+field, value).
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return payloads(records), nil
}

// List returns every document in a collection.
func (s *Store) List(ctx context.Context, collection string) ([]map[string]any, error) {
	var records []Document
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.collection = ?", collection).
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return payloads(records), nil
}

func payloads(records []Document) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		out = append(out, record.Data)
	}
	return out
}
