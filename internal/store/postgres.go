package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/surprisewrap/service-shop-go/pkg/utilities"
)

// Postgres implements Store on a single JSONB documents table. Each call runs
// under its own deadline so a slow or unreachable database bounds request
// latency instead of hanging the handler.
type Postgres struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db, timeout: 5 * time.Second}
}

// EnsureSchema creates the documents table if not exists (idempotent).
// The partial unique index on users email closes the register
// check-then-insert race at the store level: the second concurrent insert
// fails with a unique violation instead of producing a duplicate account.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
  collection TEXT NOT NULL,
  id TEXT NOT NULL,
  doc JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_doc ON documents USING gin (doc);
CREATE UNIQUE INDEX IF NOT EXISTS uniq_documents_users_email
  ON documents ((doc->>'email')) WHERE collection = 'users';
`
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	_, err := p.db.ExecContext(ctx, ddl)
	return err
}

func (p *Postgres) Insert(ctx context.Context, collection string, doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	id := utilities.NewKSUID()
	const q = `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	// lib/pq encodes []byte as bytea, so JSON payloads go over as text
	if _, err := p.db.ExecContext(ctx, q, collection, id, string(raw)); err != nil {
		if isUniqueViolation(err) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	const q = `SELECT id, doc FROM documents WHERE collection=$1 ORDER BY created_at, id`
	return p.queryDocuments(ctx, q, collection)
}

func (p *Postgres) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	const q = `SELECT id, doc FROM documents WHERE collection=$1 AND doc->>$2 = $3 ORDER BY created_at, id`
	return p.queryDocuments(ctx, q, collection, field, value)
}

func (p *Postgres) queryDocuments(ctx context.Context, q string, args ...any) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, (*[]byte)(&d.Data)); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (p *Postgres) GetByID(ctx context.Context, collection, id string) (Document, error) {
	const q = `SELECT doc FROM documents WHERE collection=$1 AND id=$2`
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	var raw []byte
	if err := p.db.GetContext(ctx, &raw, q, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return Document{ID: id, Data: raw}, nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	const q = `UPDATE documents SET doc = doc || $3::jsonb, updated_at=NOW() WHERE collection=$1 AND id=$2`
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	res, err := p.db.ExecContext(ctx, q, collection, id, string(raw))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	res, err := p.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
