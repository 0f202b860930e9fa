package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos_emailer/internal/domain/faculty"

	"github.com/jmoiron/sqlx"
)

var ErrFacultyNotFound = fmt.Errorf("faculty not found")

type FacultyRepository struct {
	db *sqlx.DB
}

func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// ListEligible returns faculty whose permission level satisfies rule, ordered by pid.
func (r *FacultyRepository) ListEligible(ctx context.Context, rule faculty.Rule) ([]*faculty.Faculty, error) {
	op := "="
	if rule.AtLeast {
		op = ">="
	}
	query := r.db.Rebind(`SELECT pid, email, permissions FROM Faculty WHERE permissions ` + op + ` ? ORDER BY pid`)

	members := make([]*faculty.Faculty, 0)
	if err := r.db.SelectContext(ctx, &members, query, rule.Level); err != nil {
		return nil, fmt.Errorf("error listing faculty with permissions %s: %w", rule, err)
	}
	return members, nil
}

func (r *FacultyRepository) GetByPID(ctx context.Context, pid string) (*faculty.Faculty, error) {
	query := r.db.Rebind(`SELECT pid, email, permissions FROM Faculty WHERE pid = ?`)

	f := &faculty.Faculty{}
	if err := r.db.GetContext(ctx, f, query, pid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("error getting faculty by pid: %w", err)
	}
	return f, nil
}
