// Package store reads user, session, subscription, and analytics-event
// rows from the hosted Postgres store. All rows are value snapshots;
// nothing here is ever the system of record.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/metricdeck/metricdeck/internal/fetch"
)

// Table names in the external schema. These are fixed for
// compatibility with the hosted store and its other consumers.
const (
	tableUsers         = "users"
	tableSessions      = "sessions"
	tableEvents        = "analytics_events"
	tableSubscriptions = "subscriptions"
)

// Store is a read-only client for the hosted relational store.
type Store struct {
	db       *sql.DB
	pageSize int
}

// Open connects to the store at the given Postgres URL and verifies
// the connection with a short ping.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return New(db), nil
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, pageSize: fetch.DefaultPageSize}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows, allowing a
// single scan helper for both.
type rowScanner interface {
	Scan(dest ...any) error
}

// count runs a COUNT(*) over table with the filter applied.
func (s *Store) count(ctx context.Context, table string, f Filter) (int, error) {
	where, args := f.where()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}
