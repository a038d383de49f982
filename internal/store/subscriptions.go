package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metricdeck/metricdeck/internal/fetch"
)

// subscriptionCols is the column list for subscription selects. Keep
// in sync with scanSubscription.
const subscriptionCols = `id, user_id, plan_id, status, is_trial,
	current_period_end`

func scanSubscription(rs rowScanner) (Subscription, error) {
	var sub Subscription
	err := rs.Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.IsTrial,
		&sub.CurrentPeriodEnd,
	)
	return sub, err
}

// ListSubscriptions returns every subscription matching the filter.
func (s *Store) ListSubscriptions(ctx context.Context, f Filter) ([]Subscription, error) {
	return fetch.All(ctx, s.pageSize, func(ctx context.Context, offset, limit int) ([]Subscription, error) {
		query, args := f.buildSelect(tableSubscriptions, subscriptionCols, "id", offset, limit)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("listing subscriptions: %w", err)
		}
		defer rows.Close()

		var subs []Subscription
		for rows.Next() {
			sub, err := scanSubscription(rows)
			if err != nil {
				return nil, fmt.Errorf("scanning subscription: %w", err)
			}
			subs = append(subs, sub)
		}
		return subs, rows.Err()
	})
}

// ActiveSubscription returns the user's subscription with status
// "active", or nil when the user has no active plan. Absence is a
// valid, expected state, not an error.
func (s *Store) ActiveSubscription(ctx context.Context, userID string) (*Subscription, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE user_id = $1 AND status = $2 LIMIT 1",
		subscriptionCols, tableSubscriptions,
	)
	sub, err := scanSubscription(
		s.db.QueryRowContext(ctx, query, userID, SubscriptionStatusActive),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching active subscription for %s: %w", userID, err)
	}
	return &sub, nil
}
