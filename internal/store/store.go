// Package store persists delivered signals so operators can review what the
// monitor reported and when.
package store

import (
	"errors"

	"github.com/psantana5/freqtrade-ops/internal/config"
	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// ErrSignalNotFound is returned when a lookup matches nothing
var ErrSignalNotFound = errors.New("signal not found")

// Store defines the interface for signal persistence.
// SQLite and PostgreSQL implement it; Memory backs tests.
type Store interface {
	// SaveSignal persists a signal and fills in its ID
	SaveSignal(sig *models.Signal) error

	// ListSignals returns the most recent signals, newest first.
	// pair filters by trading pair when non-empty.
	ListSignals(limit int, pair string) ([]models.Signal, error)

	// CountByType aggregates stored signals per signal type
	CountByType() (map[models.SignalType]int, error)

	// Lifecycle
	HealthCheck() error
	Close() error
}

// New creates a store based on configuration, defaulting to SQLite
func New(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres", "postgresql":
		return NewPostgresStore(cfg.DSN)
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "ftops.db"
		}
		return NewSQLiteStore(path)
	default:
		return nil, errors.New("unsupported store driver: " + cfg.Driver)
	}
}
