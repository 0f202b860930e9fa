// internal/domain/plan/plan.go
package plan

import (
	"database/sql"
	"time"
)

// Plan is a student's Plan of Study as stored in POS_PlanOfStudy.
type Plan struct {
	POSID          int64          `db:"pos_id"`
	PID            string         `db:"pid"`
	POSType        string         `db:"pos_type"`
	CommitteeChair sql.NullString `db:"committee_chair"` // Faculty PID, NULL until assigned
	CurrentStatus  Status         `db:"current_status"`
}

// ChairedBy reports whether the given faculty PID is this plan's committee chair.
func (p *Plan) ChairedBy(facultyPID string) bool {
	return p.CommitteeChair.Valid && p.CommitteeChair.String == facultyPID
}

// HistoryEntry is one row of the append-only POS_History log.
type HistoryEntry struct {
	PlanOfStudy int64        `db:"plan_of_study"`
	Status      Status       `db:"history_status"`
	DateChanged sql.NullTime `db:"date_changed"`
}

// Age returns how long ago the entry was recorded. ok is false when the
// entry carries no timestamp.
func (h *HistoryEntry) Age(now time.Time) (age time.Duration, ok bool) {
	if !h.DateChanged.Valid {
		return 0, false
	}
	return now.Sub(h.DateChanged.Time), true
}

// GroupByStatus splits plans by current status. Groups keep the order in
// which each status was first seen, and plans keep their input order.
func GroupByStatus(plans []*Plan) ([]Status, map[Status][]*Plan) {
	order := make([]Status, 0)
	groups := make(map[Status][]*Plan)
	for _, p := range plans {
		if _, seen := groups[p.CurrentStatus]; !seen {
			order = append(order, p.CurrentStatus)
		}
		groups[p.CurrentStatus] = append(groups[p.CurrentStatus], p)
	}
	return order, groups
}
