package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// PostgresSource reads the corpus from a table with question and answer columns,
// ordered by id.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	if table == "" {
		table = "faq_entries"
	}
	return &PostgresSource{pool: pool, table: table}
}

// Load implements faq.CorpusSource.
func (s *PostgresSource) Load(ctx context.Context) (faq.Corpus, error) {
	query := fmt.Sprintf(`SELECT question, answer FROM %s ORDER BY id`, tableIdentifier(s.table).Sanitize())
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return faq.Corpus{}, classifyPgError(s.table, err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		var question, answer *string
		if err := rows.Scan(&question, &answer); err != nil {
			return faq.Corpus{}, fmt.Errorf("%w: %s: %v", faq.ErrCorpusMalformed, s.table, err)
		}
		data = append(data, []string{deref(question), deref(answer)})
	}
	if err := rows.Err(); err != nil {
		return faq.Corpus{}, classifyPgError(s.table, err)
	}
	return entriesFromRows("postgres:"+s.table, []string{questionColumn, answerColumn}, data)
}

// tableIdentifier splits a possibly schema-qualified name so each part is quoted separately.
func tableIdentifier(table string) pgx.Identifier {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return pgx.Identifier(parts)
}

func classifyPgError(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: table %s", faq.ErrCorpusNotFound, table)
		case pgUndefinedColumn:
			return fmt.Errorf("%w: table %s: %s", faq.ErrCorpusMalformed, table, pgErr.Message)
		}
	}
	return fmt.Errorf("query corpus table %s: %w", table, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ faq.CorpusSource = (*PostgresSource)(nil)
