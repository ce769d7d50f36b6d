package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ambition/internal/sim"
)

// primarySlot is the slot the daemon saves into. The schema supports more
// slots for a future multi-save UI.
const primarySlot = "primary"

// SQLiteStore persists snapshots in a SQLite database, one row per save
// slot. Saves are transactional: a failed write leaves the previous row
// intact.
type SQLiteStore struct {
	conn *sqlx.DB
}

// OpenSQLite opens or creates the save database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate save db: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		snapshot_id TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		current_turn INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS save_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save writes the snapshot into the primary slot.
func (s *SQLiteStore) Save(ctx context.Context, snap *sim.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO saves (slot, snapshot_id, saved_at, current_turn, data)
		 VALUES (?, ?, ?, ?, ?)`,
		primarySlot, snap.SnapshotID, snap.SavedAt.Format("2006-01-02T15:04:05Z07:00"),
		snap.CurrentTurn, string(data),
	)
	if err != nil {
		return fmt.Errorf("write snapshot row: %w", err)
	}
	return tx.Commit()
}

// Load reads the primary slot snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (*sim.Snapshot, error) {
	var data string
	err := s.conn.GetContext(ctx, &data,
		"SELECT data FROM saves WHERE slot = ?", primarySlot)
	if err != nil {
		return nil, fmt.Errorf("read snapshot row: %w", err)
	}

	var snap sim.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Exists reports whether the primary slot holds a snapshot.
func (s *SQLiteStore) Exists() bool {
	var n int
	err := s.conn.Get(&n, "SELECT COUNT(*) FROM saves WHERE slot = ?", primarySlot)
	return err == nil && n > 0
}

// SetMeta stores a key/value pair alongside the saves (e.g. daemon state).
func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO save_meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.conn.Get(&value, "SELECT value FROM save_meta WHERE key = ?", key)
	return value, err
}
