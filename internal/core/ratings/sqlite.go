package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists ratings in a single sqlite table so standings
// survive process restarts. The driver is pure Go; ":memory:" works for
// tests.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ratings database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err = s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ratings database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ratings (
		id TEXT PRIMARY KEY,
		rating REAL NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (float64, bool, error) {
	var rating float64
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM ratings WHERE id = ?`, id,
	).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get rating %s: %w", id, err)
	}
	return rating, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, rating float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (id, rating, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`,
		id, rating, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put rating %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) All(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, rating FROM ratings`)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var rating float64
		if err = rows.Scan(&id, &rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out[id] = rating
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
