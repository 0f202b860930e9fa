package faculty

import "context"

// Repository defines the operations for retrieving Faculty entities.
type Repository interface {
	ListEligible(ctx context.Context, rule Rule) ([]*Faculty, error)
	GetByPID(ctx context.Context, pid string) (*Faculty, error)
}
