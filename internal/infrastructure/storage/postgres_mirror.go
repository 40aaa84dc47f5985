package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/ports"
)

// PostgresMirror keeps a best-effort copy of summary results in Postgres.
// It is an optional collaborator: callers log and ignore its errors, and a
// nil database turns every call into a no-op.
type PostgresMirror struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.DocumentMirror = (*PostgresMirror)(nil)

// Open connects with the Postgres driver and pings the server.
func Open(dsn string) (*PostgresMirror, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mirror db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping mirror db: %w", err)
	}
	return NewPostgresMirror(db), nil
}

// NewPostgresMirror wires an existing sql.DB (nil-tolerant).
func NewPostgresMirror(db *sql.DB) *PostgresMirror {
	return &PostgresMirror{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Upsert stores one summary record keyed by the external entry id.
func (m *PostgresMirror) Upsert(ctx context.Context, entryID string, result domain.SummaryResult) error {
	if m.db == nil {
		return nil
	}

	query, args, err := m.builder.
		Insert("paper_summaries").
		Columns("external_id", "title", "authors", "published", "pdf_link", "bibtex", "summary", "degraded").
		Values(entryID, result.Title, result.Authors, result.Published, result.PDFLink, result.Bibtex, result.Summary, result.Degraded).
		Suffix(`ON CONFLICT (external_id) DO UPDATE
			SET title = EXCLUDED.title,
			    authors = EXCLUDED.authors,
			    published = EXCLUDED.published,
			    pdf_link = EXCLUDED.pdf_link,
			    bibtex = EXCLUDED.bibtex,
			    summary = EXCLUDED.summary,
			    degraded = EXCLUDED.degraded,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert summary %s: %w", entryID, err)
	}
	return nil
}

// Close releases the connection pool.
func (m *PostgresMirror) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
