package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists label records using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS labels (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	x          REAL NOT NULL,
	y          REAL NOT NULL,
	distance   REAL NOT NULL,
	tolerance  REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_labels_name ON labels(name);
CREATE INDEX IF NOT EXISTS idx_labels_source ON labels(source);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveLabel inserts a label record, assigning its ID and creation time.
func (s *SQLiteStore) SaveLabel(ctx context.Context, rec LabelRecord) (*LabelRecord, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO labels (id, name, source, x, y, distance, tolerance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Source, rec.X, rec.Y, rec.Distance, rec.Tolerance, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert label")
	}
	return &rec, nil
}

func (s *SQLiteStore) GetLabel(ctx context.Context, id string) (*LabelRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, x, y, distance, tolerance, created_at FROM labels WHERE id = ?`,
		id,
	)
	return scanLabel(row)
}

// ListLabels returns stored labels newest first. A non-empty source
// filters to that source; limit <= 0 means no limit.
func (s *SQLiteStore) ListLabels(ctx context.Context, source string, limit int) ([]LabelRecord, error) {
	query := `SELECT id, name, source, x, y, distance, tolerance, created_at FROM labels WHERE 1=1`
	var args []any

	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list labels")
	}
	defer rows.Close()

	var recs []LabelRecord
	for rows.Next() {
		rec, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate labels")
}

// DeleteBySource removes all labels from the given source and reports how
// many were deleted.
func (s *SQLiteStore) DeleteBySource(ctx context.Context, source string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE source = ?`, source)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete labels by source")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanLabel(row scannable) (*LabelRecord, error) {
	var rec LabelRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Source, &rec.X, &rec.Y, &rec.Distance, &rec.Tolerance, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan label")
	}
	return &rec, nil
}
