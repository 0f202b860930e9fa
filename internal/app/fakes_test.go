package app

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"pos_emailer/internal/domain/faculty"
	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/domain/plan"
	idb "pos_emailer/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakePlanRepo serves plans and history from memory.
type fakePlanRepo struct {
	plans      []*plan.Plan
	history    map[int64]*plan.HistoryEntry
	historyErr map[int64]error
	listErr    error

	lastStatuses []plan.Status
	lastLimit    int
}

func (r *fakePlanRepo) ListByStatus(ctx context.Context, statuses []plan.Status, limit int) ([]*plan.Plan, error) {
	r.lastStatuses = statuses
	r.lastLimit = limit
	if r.listErr != nil {
		return nil, r.listErr
	}
	want := make(map[plan.Status]bool)
	for _, s := range statuses {
		want[s] = true
	}
	out := make([]*plan.Plan, 0)
	for _, p := range r.plans {
		if want[p.CurrentStatus] {
			out = append(out, p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakePlanRepo) LatestHistory(ctx context.Context, posID int64) (*plan.HistoryEntry, error) {
	if err, ok := r.historyErr[posID]; ok {
		return nil, err
	}
	h, ok := r.history[posID]
	if !ok {
		return nil, idb.ErrHistoryNotFound
	}
	return h, nil
}

// fakeFacultyRepo filters its records with the real Rule.
type fakeFacultyRepo struct {
	faculty   []*faculty.Faculty
	listErr   map[int]error
	lookupErr map[string]error
}

func (r *fakeFacultyRepo) ListEligible(ctx context.Context, rule faculty.Rule) ([]*faculty.Faculty, error) {
	if err, ok := r.listErr[rule.Level]; ok {
		return nil, err
	}
	out := make([]*faculty.Faculty, 0)
	for _, f := range r.faculty {
		if rule.Matches(f.Permissions) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFacultyRepo) GetByPID(ctx context.Context, pid string) (*faculty.Faculty, error) {
	if err, ok := r.lookupErr[pid]; ok {
		return nil, err
	}
	for _, f := range r.faculty {
		if f.PID == pid {
			return f, nil
		}
	}
	return nil, idb.ErrFacultyNotFound
}

type fakeStore struct {
	plans   *fakePlanRepo
	faculty *fakeFacultyRepo
	closed  bool
}

func (s *fakeStore) Plans() plan.Repository       { return s.plans }
func (s *fakeStore) Faculty() faculty.Repository { return s.faculty }
func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		plans:   &fakePlanRepo{history: map[int64]*plan.HistoryEntry{}, historyErr: map[int64]error{}},
		faculty: &fakeFacultyRepo{listErr: map[int]error{}, lookupErr: map[string]error{}},
	}
}

func openerFor(store *fakeStore) StoreOpener {
	return func(ctx context.Context) (Store, error) {
		return store, nil
	}
}

func failingOpener(err error) StoreOpener {
	return func(ctx context.Context) (Store, error) {
		return nil, err
	}
}

// recordingSender keeps every message and fails for recipients listed in failFor.
type recordingSender struct {
	mu      sync.Mutex
	sent    []notification.Message
	failFor map[string]error
}

func (s *recordingSender) Send(ctx context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[msg.To]; ok {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) recipients() []string {
	out := make([]string, len(s.sent))
	for i, m := range s.sent {
		out[i] = m.To
	}
	return out
}

var errBoom = errors.New("boom")

func testRenderer(t testing.TB) *Renderer {
	t.Helper()
	r, err := NewRenderer("https://saacs.example.edu", "vt.edu", "gradinfo@cs.vt.edu")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func testEntry() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func chair(pid string) sql.NullString {
	return sql.NullString{String: pid, Valid: true}
}

func email(addr string) sql.NullString {
	return sql.NullString{String: addr, Valid: true}
}

func changedAt(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
