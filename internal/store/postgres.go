package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps every collection in a single documents table with a
// JSONB payload. Equality filters and ordering are pushed down as ->>
// expressions; BatchWrite maps to one transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, doc, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (collection, id) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = CURRENT_TIMESTAMP
	`, collection, id, data)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM documents WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(data, out)
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET doc = doc || $3::jsonb, updated_at = CURRENT_TIMESTAMP
		WHERE collection = $1 AND id = $2
	`, collection, id, data)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query, out interface{}) error {
	query := "SELECT doc FROM documents WHERE collection = $1"
	args := []interface{}{collection}

	argIndex := 2
	for _, f := range q.Filters {
		query += fmt.Sprintf(" AND doc->>'%s' = $%d", f.Field, argIndex)
		args = append(args, fmt.Sprintf("%v", f.Value))
		argIndex++
	}

	if q.OrderBy != "" {
		direction := "ASC"
		if q.Descending {
			direction = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY doc->>'%s' %s", q.OrderBy, direction)
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("failed to scan %s document: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	combined, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(combined, out)
}

func (s *PostgresStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	if len(ops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}

	for _, op := range ops {
		data, err := json.Marshal(op.Doc)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode %s/%s: %w", op.Collection, op.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (collection, id, doc, updated_at)
			VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
			ON CONFLICT (collection, id) DO UPDATE
			SET doc = EXCLUDED.doc, updated_at = CURRENT_TIMESTAMP
		`, op.Collection, op.ID, data)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write %s/%s in batch: %w", op.Collection, op.ID, err)
		}
	}

	return tx.Commit()
}
