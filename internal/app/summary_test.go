package app

import (
	"testing"

	"pos_emailer/internal/domain/plan"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestSummary_CountsAndNotifiedIDs(t *testing.T) {
	s := newSummary(ProcedureFaculty, fixedNow)
	s.record(sent(plan.StatusPendingGraduateCoordinator, "a@vt.edu", 3, 2))
	s.record(sent(plan.StatusPendingGraduateCoordinator, "b@vt.edu", 3, 2))
	s.record(skipped(plan.StatusPendingFaculty, "not chair"))
	s.record(failed(plan.StatusAwaitingKey, "send failed", errBoom, 7))

	if s.Count(OutcomeSent) != 2 || s.Count(OutcomeSkipped) != 1 || s.Count(OutcomeFailed) != 1 {
		t.Fatalf("unexpected counts: %+v", s.Outcomes)
	}
	if !equalIDs(s.NotifiedPlanIDs(), []int64{3, 2}) {
		t.Errorf("expected deduplicated [3 2], got %v", s.NotifiedPlanIDs())
	}
	if !s.HasFailures() {
		t.Error("expected HasFailures")
	}
}

func TestSummary_LogWritesOneWarningPerFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := newSummary(ProcedureStudent, fixedNow)
	s.FinishedAt = fixedNow
	s.record(sent(plan.StatusRejected, "x@vt.edu", 1))
	s.record(failed(plan.StatusRejected, "failed to send student email", errBoom, 2))
	s.record(failed(plan.StatusApproved, "history lookup failed", errBoom, 3))

	s.Log(logrus.NewEntry(logger))

	entries := hook.AllEntries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Message != "Procedure complete" || entries[0].Data["failed"] != 2 {
		t.Errorf("unexpected totals entry: %s %v", entries[0].Message, entries[0].Data)
	}
	for _, e := range entries[1:] {
		if e.Level != logrus.WarnLevel {
			t.Errorf("expected warning, got %s", e.Level)
		}
	}
}
