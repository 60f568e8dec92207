package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// PostgresStore persists signals in PostgreSQL for deployments that already
// run one next to the backend
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL using the given DSN
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS signals (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		pair TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		value JSONB,
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
func (s *PostgresStore) SaveSignal(sig *models.Signal) error {
	value, err := json.Marshal(sig.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal signal value: %w", err)
	}

	err = s.db.QueryRow(`
		INSERT INTO signals (timestamp, pair, type, message, value, strength, strategy)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, sig.Timestamp.UTC(), sig.Pair, string(sig.Type), sig.Message, string(value), string(sig.Strength), sig.Strategy).Scan(&sig.ID)
	if err != nil {
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	return nil
}

// ListSignals returns the most recent signals, newest first
func (s *PostgresStore) ListSignals(limit int, pair string) ([]models.Signal, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if pair != "" {
		rows, err = s.db.Query(`
			SELECT id, timestamp, pair, type, message, value, strength, strategy
			FROM signals WHERE pair = $1
			ORDER BY timestamp DESC, id DESC LIMIT $2
		`, pair, limit)
	} else {
		rows, err = s.db.Query(`
			SELECT id, timestamp, pair, type, message, value, strength, strategy
			FROM signals
			ORDER BY timestamp DESC, id DESC LIMIT $1
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// CountByType aggregates stored signals per signal type
func (s *PostgresStore) CountByType() (map[models.SignalType]int, error) {
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
func (s *PostgresStore) HealthCheck() error {
	return s.db.Ping()
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
