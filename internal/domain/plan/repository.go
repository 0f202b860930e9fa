package plan

import "context"

// Repository defines the read-only queries the notifiers run against plans and their history.
type Repository interface {
	// ListByStatus returns plans whose current status is one of statuses,
	// newest pos_id first. limit <= 0 means no limit.
	ListByStatus(ctx context.Context, statuses []Status, limit int) ([]*Plan, error)
	// LatestHistory returns the entry with the greatest date_changed for the plan.
	LatestHistory(ctx context.Context, posID int64) (*HistoryEntry, error)
}
