package store

import (
	"encoding/json"
	"time"
)

// User classification values stored in the user_type column.
const (
	UserTypeStandard = "standard"
	UserTypePremium  = "premium"
)

// User is a row in the users table. Rows are read-only snapshots;
// the hosted store is the system of record.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	UserType     string    `json:"user_type"`
	IsSubscriber bool      `json:"is_subscriber"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a row in the sessions table. EndedAt is nil while the
// session is open. Multiple active sessions per user are
// representationally possible and must be tolerated.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// AnalyticsEvent is a row in the analytics_events table. Events are
// append-only and never mutated once read.
type AnalyticsEvent struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	SessionID     *string         `json:"session_id,omitempty"`
	EventType     string          `json:"event_type"`
	EventCategory string          `json:"event_category"`
	EventAction   string          `json:"event_action"`
	PagePath      *string         `json:"page_path,omitempty"`
	PageSection   *string         `json:"page_section,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	UTMSource     *string         `json:"utm_source,omitempty"`
	UTMMedium     *string         `json:"utm_medium,omitempty"`
	UTMCampaign   *string         `json:"utm_campaign,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Path returns the event's page path, or "" when unset.
func (e AnalyticsEvent) Path() string {
	if e.PagePath == nil {
		return ""
	}
	return *e.PagePath
}

// SubscriptionStatusActive is the status value that marks a user's
// current subscription. At most one active subscription per user is
// treated as "the" subscription.
const SubscriptionStatusActive = "active"

// Subscription is a row in the subscriptions table.
type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	PlanID           string     `json:"plan_id"`
	Status           string     `json:"status"`
	IsTrial          bool       `json:"is_trial"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
