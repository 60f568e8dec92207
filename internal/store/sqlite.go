package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// SQLiteStore is the default on-disk signal store
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) a SQLite signal database.
// WAL and a busy timeout keep the single-writer setup responsive while the
// CLI reads concurrently with the monitor daemon.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialize writes to avoid SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		pair TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		value TEXT,
		strength TEXT NOT NULL,
		strategy TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_signals_pair ON signals(pair, timestamp);
	CREATE INDEX IF NOT EXISTS idx_signals_type ON signals(type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSignal persists a signal and fills in its ID
func (s *SQLiteStore) SaveSignal(sig *models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := json.Marshal(sig.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal signal value: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO signals (timestamp, pair, type, message, value, strength, strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sig.Timestamp.UTC(), sig.Pair, string(sig.Type), sig.Message, string(value), string(sig.Strength), sig.Strategy)
	if err != nil {
		return fmt.Errorf("failed to insert signal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read signal id: %w", err)
	}
	sig.ID = id
	return nil
}

// ListSignals returns the most recent signals, newest first
func (s *SQLiteStore) ListSignals(limit int, pair string) ([]models.Signal, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, timestamp, pair, type, message, value, strength, strategy FROM signals`
	args := []interface{}{}
	if pair != "" {
		query += ` WHERE pair = ?`
		args = append(args, pair)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// CountByType aggregates stored signals per signal type
func (s *SQLiteStore) CountByType() (map[models.SignalType]int, error) {
	rows, err := s.db.Query(`SELECT type, COUNT(*) FROM signals GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count signals: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SignalType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[models.SignalType(t)] = n
	}
	return counts, rows.Err()
}

// HealthCheck verifies the database is reachable
func (s *SQLiteStore) HealthCheck() error {
	return s.db.Ping()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanSignals(rows rowScanner) ([]models.Signal, error) {
	var out []models.Signal
	for rows.Next() {
		var sig models.Signal
		var typ, strength, valueJSON string
		if err := rows.Scan(&sig.ID, &sig.Timestamp, &sig.Pair, &typ, &sig.Message, &valueJSON, &strength, &sig.Strategy); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		sig.Type = models.SignalType(typ)
		sig.Strength = models.Strength(strength)
		if valueJSON != "" {
			var v interface{}
			if err := json.Unmarshal([]byte(valueJSON), &v); err == nil {
				sig.Value = v
			}
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}
