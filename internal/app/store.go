package app

import (
	"context"

	"pos_emailer/internal/domain/faculty"
	"pos_emailer/internal/domain/plan"

	"github.com/sirupsen/logrus"
)

// Store is one open database session used for the whole of a procedure.
type Store interface {
	Plans() plan.Repository
	Faculty() faculty.Repository
	Close() error
}

// StoreOpener opens a new Store. Each procedure opens and closes its own.
type StoreOpener func(ctx context.Context) (Store, error)

func closeStore(store Store, log *logrus.Entry) {
	if err := store.Close(); err != nil {
		log.WithError(err).Warn("Failed to close database connection")
	}
}
