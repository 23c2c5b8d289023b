package data

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS read_actions (
	id         VARCHAR PRIMARY KEY,
	series_id  VARCHAR NOT NULL,
	book_id    VARCHAR NOT NULL,
	completed  BOOLEAN NOT NULL,
	attempts   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
)`

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// QueueStore persists read actions that could not be submitted yet. The
// tracker drains it and re-queues anything the server was unreachable for.
type QueueStore struct {
	db *sql.DB
}

func NewQueueStore(db *sql.DB) *QueueStore {
	return &QueueStore{db: db}
}

func (s *QueueStore) Enqueue(action *ReadAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO read_actions (id, series_id, book_id, completed, attempts, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		action.ID, action.SeriesID, action.BookID, action.Completed, action.Attempts, action.CreatedAt,
	)
	return err
}

func (s *QueueStore) List() ([]ReadAction, error) {
	rows, err := s.db.Query(
		`SELECT id, series_id, book_id, completed, attempts, created_at FROM read_actions ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []ReadAction
	for rows.Next() {
		var a ReadAction
		if err := rows.Scan(&a.ID, &a.SeriesID, &a.BookID, &a.Completed, &a.Attempts, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *QueueStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM read_actions WHERE id = ?`, id)
	return err
}

// Bump increments the attempt counter of an action left for retry.
func (s *QueueStore) Bump(id string) error {
	_, err := s.db.Exec(`UPDATE read_actions SET attempts = attempts + 1 WHERE id = ?`, id)
	return err
}
