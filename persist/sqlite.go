package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hmori/quizquest/engine/save"
)

// SQLiteStore is the local single-file backend: the whole snapshot rides in
// one JSON payload column, keyed by player id.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating directories as needed) the database file
// and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS rpg_progress (
  player_id  TEXT PRIMARY KEY,
  payload    TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensuring rpg_progress schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, playerID string) (*save.Snapshot, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM rpg_progress WHERE player_id = ?`, playerID).
		Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading progress for %q: %w", playerID, err)
	}
	sn, err := save.Unmarshal([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("decoding progress for %q: %w", playerID, err)
	}
	return sn, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, playerID string, sn *save.Snapshot) error {
	payload, err := save.Marshal(sn)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rpg_progress(player_id, payload, updated_at)
		 VALUES(?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player_id) DO UPDATE SET
		   payload=excluded.payload,
		   updated_at=CURRENT_TIMESTAMP`,
		playerID, string(payload))
	if err != nil {
		return fmt.Errorf("saving progress for %q: %w", playerID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
