package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRecord is one generated document as persisted.
type DocumentRecord struct {
	ID         string
	UserID     string
	DocType    string
	Title      string
	StorageKey string
	CreatedAt  time.Time
}

// DocumentStore persists generated documents.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore constructs a DocumentStore on the given pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// Insert records a freshly generated document.
func (s *DocumentStore) Insert(ctx context.Context, rec DocumentRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, user_id, doc_type, title, storage_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.DocType, rec.Title, rec.StorageKey, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ListByUser returns the user's documents, newest first.
func (s *DocumentStore) ListByUser(ctx context.Context, userID string) ([]DocumentRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, doc_type, title, storage_key, created_at
		 FROM documents
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.DocType, &rec.Title, &rec.StorageKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document rows: %w", err)
	}

	return records, nil
}

// GetByID returns one document. Callers own the not-found mapping; a missing
// row surfaces as pgx.ErrNoRows.
func (s *DocumentStore) GetByID(ctx context.Context, id string) (DocumentRecord, error) {
	var rec DocumentRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, doc_type, title, storage_key, created_at
		 FROM documents
		 WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.DocType, &rec.Title, &rec.StorageKey, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return DocumentRecord{}, pgx.ErrNoRows
		}
		return DocumentRecord{}, fmt.Errorf("failed to query document: %w", err)
	}

	return rec, nil
}

// Delete removes one document row. Returns pgx.ErrNoRows when nothing matched.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
