package statestore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aurum-network/aurum/internal/domain"
)

// SQLiteStore persists the ledger in a single SQLite database.
// Live state is one row per key with a version stamp; every committed write
// also appends to an immutable history table, which backs the per-key
// history iterator.
type SQLiteStore struct {
	db *sql.DB
	// SQLite allows one writer; serializing invocations here avoids
	// SQLITE_BUSY churn under concurrent Update calls.
	mu    sync.Mutex
	clock domain.Clock
	sink  domain.EventSink
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ledger_state (
			key     TEXT PRIMARY KEY,
			value   BLOB NOT NULL,
			version INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ledger_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			version    INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_key ON ledger_history(key, version)`,
	}
}

// OpenSQLite opens (creating if needed) the ledger database at path.
// Both clock and sink may be nil.
func OpenSQLite(path string, clock domain.Clock, sink domain.EventSink) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate ledger db: %w", err)
		}
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &SQLiteStore{db: db, clock: clock, sink: sink}, nil
}

type sqliteTx struct {
	tx       *sql.Tx
	writes   map[string][]byte
	writeLog []string
	events   []domain.Event
}

func (t *sqliteTx) Get(key string) ([]byte, bool, error) {
	if v, ok := t.writes[key]; ok {
		return v, true, nil
	}
	var value []byte
	err := t.tx.QueryRow(`SELECT value FROM ledger_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (t *sqliteTx) Put(key string, value []byte) error {
	if _, ok := t.writes[key]; !ok {
		t.writeLog = append(t.writeLog, key)
	}
	t.writes[key] = value
	return nil
}

func (t *sqliteTx) List(prefix string, limit int) ([]KV, error) {
	rows, err := t.tx.Query(`
		SELECT key, value FROM ledger_state
		WHERE key >= ? AND key < ? ORDER BY key
	`, prefix, prefix+"\xff")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	merged := make(map[string][]byte)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		merged[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]KV, 0, len(keys))
	for _, k := range keys {
		out = append(out, KV{Key: k, Value: merged[k]})
	}
	return out, nil
}

func (t *sqliteTx) History(key string) ([]Revision, error) {
	rows, err := t.tx.Query(`
		SELECT value, version, created_at FROM ledger_history
		WHERE key = ? ORDER BY version
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		var createdStr string
		if err := rows.Scan(&r.Value, &r.Version, &createdStr); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (t *sqliteTx) Emit(name string, payload any) {
	t.events = append(t.events, marshalEvent(name, payload))
}

// Update implements Store.
func (s *SQLiteStore) Update(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin invocation: %w", err)
	}
	tx := &sqliteTx{tx: sqlTx, writes: make(map[string][]byte)}

	if err := fn(tx); err != nil {
		sqlTx.Rollback()
		return err
	}

	now := s.clock.Now().Format(time.RFC3339Nano)
	for _, k := range tx.writeLog {
		v := tx.writes[k]
		var version uint64
		err := sqlTx.QueryRow(`SELECT version FROM ledger_state WHERE key = ?`, k).Scan(&version)
		if err != nil && err != sql.ErrNoRows {
			sqlTx.Rollback()
			return err
		}
		version++
		if _, err := sqlTx.Exec(`
			INSERT INTO ledger_state (key, value, version) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = excluded.version
		`, k, v, version); err != nil {
			sqlTx.Rollback()
			return err
		}
		if _, err := sqlTx.Exec(`
			INSERT INTO ledger_history (key, value, version, created_at) VALUES (?, ?, ?, ?)
		`, k, v, version, now); err != nil {
			sqlTx.Rollback()
			return err
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit invocation: %w", err)
	}
	if s.sink != nil && len(tx.events) > 0 {
		s.sink.Publish(tx.events)
	}
	return nil
}

// View implements Store.
func (s *SQLiteStore) View(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin view: %w", err)
	}
	defer sqlTx.Rollback()

	tx := &sqliteTx{tx: sqlTx, writes: make(map[string][]byte)}
	return fn(tx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
