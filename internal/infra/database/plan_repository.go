package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos_emailer/internal/domain/plan"

	"github.com/jmoiron/sqlx"
)

var ErrHistoryNotFound = fmt.Errorf("plan of study history not found")

type PlanRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) ListByStatus(ctx context.Context, statuses []plan.Status, limit int) ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, 0)
	if len(statuses) == 0 {
		return plans, nil
	}

	codes := make([]int, len(statuses))
	for i, s := range statuses {
		codes[i] = int(s)
	}

	query := `SELECT pos_id, pid, pos_type, committee_chair, current_status
               FROM POS_PlanOfStudy
               WHERE current_status IN (?)
               ORDER BY pos_id DESC`
	args := []interface{}{codes}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error expanding plan status list: %w", err)
	}
	if err := r.db.SelectContext(ctx, &plans, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("error listing plans by status %v: %w", statuses, err)
	}
	return plans, nil
}

func (r *PlanRepository) LatestHistory(ctx context.Context, posID int64) (*plan.HistoryEntry, error) {
	// A NULL history_status reads as 0, which never equals a real status.
	query := r.db.Rebind(`SELECT plan_of_study, COALESCE(history_status, 0) AS history_status, date_changed
               FROM POS_History
               WHERE plan_of_study = ?
               ORDER BY date_changed DESC
               LIMIT 1`)

	h := plan.HistoryEntry{}
	if err := r.db.GetContext(ctx, &h, query, posID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("error getting latest history for plan %d: %w", posID, err)
	}
	return &h, nil
}
