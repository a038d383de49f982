package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metricdeck/metricdeck/internal/fetch"
)

// userCols is the column list for user selects. Keep in sync with
// scanUser.
const userCols = `id, full_name, email, phone, user_type,
	is_subscriber, created_at`

func scanUser(rs rowScanner) (User, error) {
	var u User
	err := rs.Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.UserType,
		&u.IsSubscriber, &u.CreatedAt,
	)
	return u, err
}

// ListUsers returns every user matching the filter, paging through
// the table until exhausted. Default order is created_at ascending.
func (s *Store) ListUsers(ctx context.Context, f Filter) ([]User, error) {
	return fetch.All(ctx, s.pageSize, func(ctx context.Context, offset, limit int) ([]User, error) {
		query, args := f.buildSelect(tableUsers, userCols, "created_at", offset, limit)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
		defer rows.Close()

		var users []User
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return nil, fmt.Errorf("scanning user: %w", err)
			}
			users = append(users, u)
		}
		return users, rows.Err()
	})
}

// GetUser returns the user with the given id, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = $1", userCols, tableUsers,
	)
	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return &u, nil
}

// CountUsers returns the number of users matching the filter.
func (s *Store) CountUsers(ctx context.Context, f Filter) (int, error) {
	return s.count(ctx, tableUsers, f)
}
