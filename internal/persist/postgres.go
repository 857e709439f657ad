package persist

import (
	"context"
	"errors"
	"fmt"

	"i18n-templates/internal/locale"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	createDocumentsTable = `
		CREATE TABLE IF NOT EXISTS i18n_documents (
			path       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	selectDocument = `SELECT body FROM i18n_documents WHERE path = $1`

	upsertDocument = `
		INSERT INTO i18n_documents (path, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (path) DO UPDATE
		SET body = EXCLUDED.body,
		    updated_at = now()`
)

// PostgresGateway keeps locale dictionaries and template bundles as JSONB
// documents keyed by the path they would have on disk.
type PostgresGateway struct {
	pool *pgxpool.Pool
}

// NewPostgresGateway creates a gateway backed by pool.
func NewPostgresGateway(pool *pgxpool.Pool) *PostgresGateway {
	return &PostgresGateway{pool: pool}
}

// EnsureSchema creates the documents table when missing.
func (g *PostgresGateway) EnsureSchema(ctx context.Context) error {
	if _, err := g.pool.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("create i18n_documents table: %w", err)
	}
	log.Debug().Msg("Document schema ensured")
	return nil
}

func (g *PostgresGateway) ReadDictionary(ctx context.Context, path string) (locale.Dictionary, error) {
	var body []byte
	err := g.pool.QueryRow(ctx, selectDocument, path).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query document %s: %w", path, err)
	}

	dict, err := UnmarshalDictionary(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

func (g *PostgresGateway) WriteJSON(ctx context.Context, path string, value any) error {
	data, err := Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if _, err := g.pool.Exec(ctx, upsertDocument, path, data); err != nil {
		return fmt.Errorf("upsert document %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Stored JSON document")
	return nil
}
