package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

// Repository is the catalog store the matcher bulk-loads entries from.
type Repository interface {
	ListEntries(ctx context.Context) ([]model.CatalogEntry, error)
}

// PostgresRepository reads part families and their precomputed embeddings
// from the relational catalog.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository on an existing pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListEntries(ctx context.Context) ([]model.CatalogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, embedding FROM part_families WHERE embedding IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	var entries []model.CatalogEntry
	for rows.Next() {
		var e model.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Embedding); err != nil {
			return nil, fmt.Errorf("catalog row scan failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog rows failed: %w", err)
	}
	return entries, nil
}

// Ping reports whether the catalog store is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
