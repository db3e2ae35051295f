package indexcache

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// PostgresStore keeps bundles in the faq_index_cache table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the cache table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS faq_index_cache (
			fingerprint TEXT PRIMARY KEY,
			payload     BYTEA NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Load implements faq.IndexStore.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload
		FROM faq_index_cache
		WHERE fingerprint = $1
	`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Save implements faq.IndexStore.
func (s *PostgresStore) Save(ctx context.Context, key string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO faq_index_cache (fingerprint, payload)
		VALUES ($1, $2)
		ON CONFLICT (fingerprint) DO UPDATE
		SET payload = EXCLUDED.payload, created_at = now()
	`, key, payload)
	return err
}

var _ faq.IndexStore = (*PostgresStore)(nil)
