// Package history persists generated configurations so sessions can
// restore, edit and delete earlier work.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ByLCY/safescan/config"
)

// Item is one saved generation.
type Item struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"createdAt"`
	Config    config.Configuration `json:"config"`
}

// Store is a sqlite-backed history log.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open connects to (or creates) the history database at path.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		config TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every saved item, newest first. Rows whose stored
// configuration no longer decodes are skipped with a warning instead of
// failing the whole listing.
func (s *Store) List() ([]Item, error) {
	rows, err := s.db.Query(`SELECT id, created_at, config FROM items ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			id      string
			created int64
			raw     string
		)
		if err := rows.Scan(&id, &created, &raw); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var cfg config.Configuration
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			s.log.Warnw("skipping corrupt history row", "id", id, "error", err)
			continue
		}
		items = append(items, Item{
			ID:        id,
			CreatedAt: time.UnixMilli(created),
			Config:    cfg,
		})
	}
	return items, rows.Err()
}

// Save stores cfg as a new item and returns it.
func (s *Store) Save(cfg config.Configuration) (Item, error) {
	item := Item{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Config:    cfg,
	}
	return item, s.put(item)
}

// Update replaces the stored configuration for id. The identity is
// preserved while the timestamp refreshes, so an edited item moves to
// the top of the listing.
func (s *Store) Update(id string, cfg config.Configuration) (Item, error) {
	item := Item{
		ID:        id,
		CreatedAt: time.Now(),
		Config:    cfg,
	}
	return item, s.put(item)
}

func (s *Store) put(item Item) error {
	raw, err := json.Marshal(item.Config)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO items (id, created_at, config) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at, config = excluded.config`,
		item.ID, item.CreatedAt.UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("save history item: %w", err)
	}
	return nil
}

// Delete removes the item with id. Deleting an unknown id is not an
// error.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	return nil
}
