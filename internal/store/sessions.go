package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metricdeck/metricdeck/internal/fetch"
)

// sessionCols is the column list for session selects. Keep in sync
// with scanSession.
const sessionCols = `id, user_id, started_at, ended_at, is_active`

func scanSession(rs rowScanner) (Session, error) {
	var sess Session
	err := rs.Scan(
		&sess.ID, &sess.UserID, &sess.StartedAt, &sess.EndedAt,
		&sess.IsActive,
	)
	return sess, err
}

// ListSessions returns every session matching the filter. Default
// order is started_at ascending.
func (s *Store) ListSessions(ctx context.Context, f Filter) ([]Session, error) {
	return fetch.All(ctx, s.pageSize, func(ctx context.Context, offset, limit int) ([]Session, error) {
		query, args := f.buildSelect(tableSessions, sessionCols, "started_at", offset, limit)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("listing sessions: %w", err)
		}
		defer rows.Close()

		var sessions []Session
		for rows.Next() {
			sess, err := scanSession(rows)
			if err != nil {
				return nil, fmt.Errorf("scanning session: %w", err)
			}
			sessions = append(sessions, sess)
		}
		return sessions, rows.Err()
	})
}

// GetSession returns the session with the given id, or nil when
// absent. Absence is not an error.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = $1", sessionCols, tableSessions,
	)
	sess, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", id, err)
	}
	return &sess, nil
}

// CountSessions returns the number of sessions matching the filter.
func (s *Store) CountSessions(ctx context.Context, f Filter) (int, error) {
	return s.count(ctx, tableSessions, f)
}
