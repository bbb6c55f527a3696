package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

// PostgresStore keeps documents in the documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
	}
}

func (r *PostgresStore) List(ctx context.Context) ([]model.DocumentRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id
		FROM documents
		WHERE id ILIKE '%.md'
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var refs []model.DocumentRef
	for rows.Next() {
		var ref model.DocumentRef
		if err := rows.Scan(&ref.ID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PostgresStore) Read(ctx context.Context, ref model.DocumentRef) (string, error) {
	var content string
	err := r.pool.QueryRow(ctx, `
		SELECT content FROM documents WHERE id = $1
	`, ref.ID).Scan(&content)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w %s: %w", ErrRead, ref.ID, ErrorNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRead, ref.ID, err)
	}
	return content, nil
}

func (r *PostgresStore) Write(ctx context.Context, ref model.DocumentRef, text string) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET content = $2, updated_at = now()
		WHERE id = $1
	`, ref.ID, text)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, ref.ID, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w %s: %w", ErrWrite, ref.ID, ErrorNotFound)
	}
	return nil
}

// Put creates or replaces a document; used when importing a collection.
func (r *PostgresStore) Put(ctx context.Context, ref model.DocumentRef, text string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, content) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, updated_at = now()
	`, ref.ID, text)
	if err != nil {
		return fmt.Errorf("put document %s: %w", ref.ID, err)
	}
	return nil
}
