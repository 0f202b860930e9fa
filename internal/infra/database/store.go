package database

import (
	"context"

	"pos_emailer/internal/domain/faculty"
	"pos_emailer/internal/domain/plan"
	"pos_emailer/internal/infra/config"

	"github.com/jmoiron/sqlx"
)

// Store bundles the repositories that share one connection pool.
type Store struct {
	db      *sqlx.DB
	plans   *PlanRepository
	faculty *FacultyRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:      db,
		plans:   NewPlanRepository(db),
		faculty: NewFacultyRepository(db),
	}
}

// OpenStore connects to the configured database.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, err := NewConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Plans() plan.Repository {
	return s.plans
}

func (s *Store) Faculty() faculty.Repository {
	return s.faculty
}

func (s *Store) Close() error {
	return s.db.Close()
}
