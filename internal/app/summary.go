package app

import (
	"time"

	"pos_emailer/internal/domain/plan"

	"github.com/sirupsen/logrus"
)

// Procedure names one of the two notification passes.
type Procedure string

const (
	ProcedureFaculty Procedure = "faculty"
	ProcedureStudent Procedure = "student"
)

// OutcomeKind is the result of handling one plan (student pass) or one
// (status, reviewer) pair (faculty pass).
type OutcomeKind string

const (
	OutcomeSent    OutcomeKind = "SENT"
	OutcomeSkipped OutcomeKind = "SKIPPED"
	OutcomeFailed  OutcomeKind = "FAILED"
)

type Outcome struct {
	Kind      OutcomeKind
	Status    plan.Status
	POSIDs    []int64
	Reviewer  string // faculty pass only
	Recipient string
	Reason    string
	Err       error
}

func sent(status plan.Status, recipient string, posIDs ...int64) Outcome {
	return Outcome{Kind: OutcomeSent, Status: status, Recipient: recipient, POSIDs: posIDs}
}

func skipped(status plan.Status, reason string, posIDs ...int64) Outcome {
	return Outcome{Kind: OutcomeSkipped, Status: status, Reason: reason, POSIDs: posIDs}
}

func failed(status plan.Status, reason string, err error, posIDs ...int64) Outcome {
	return Outcome{Kind: OutcomeFailed, Status: status, Reason: reason, Err: err, POSIDs: posIDs}
}

// Summary collects the outcomes of one procedure. Err is set when the
// procedure aborted before finishing its batch.
type Summary struct {
	Procedure  Procedure
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
	Err        error
}

func newSummary(p Procedure, now time.Time) *Summary {
	return &Summary{Procedure: p, StartedAt: now, Outcomes: make([]Outcome, 0)}
}

func (s *Summary) record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Count returns how many outcomes are of the given kind.
func (s *Summary) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// NotifiedPlanIDs lists the plans covered by a successful send, in send order.
// They are reported only; nothing is written back to the database.
func (s *Summary) NotifiedPlanIDs() []int64 {
	ids := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, o := range s.Outcomes {
		if o.Kind != OutcomeSent {
			continue
		}
		for _, id := range o.POSIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// HasFailures reports an aborted procedure or any failed send.
func (s *Summary) HasFailures() bool {
	return s.Err != nil || s.Count(OutcomeFailed) > 0
}

// Log writes the batch summary: one line with the totals, plus one warning per failure.
func (s *Summary) Log(log *logrus.Entry) {
	entry := log.WithFields(logrus.Fields{
		"procedure": s.Procedure,
		"sent":      s.Count(OutcomeSent),
		"skipped":   s.Count(OutcomeSkipped),
		"failed":    s.Count(OutcomeFailed),
		"duration":  s.FinishedAt.Sub(s.StartedAt).String(),
	})
	if s.Err != nil {
		entry.WithError(s.Err).Error("Procedure aborted")
	} else {
		entry.Info("Procedure complete")
	}

	for _, o := range s.Outcomes {
		if o.Kind != OutcomeFailed {
			continue
		}
		log.WithFields(logrus.Fields{
			"procedure": s.Procedure,
			"status":    o.Status.Name(),
			"pos_ids":   o.POSIDs,
			"reviewer":  o.Reviewer,
			"recipient": o.Recipient,
		}).WithError(o.Err).Warn(o.Reason)
	}
}

// Report is the result of one router pass.
type Report struct {
	RunID     string
	Job       Job
	Summaries []*Summary
}

func (r *Report) HasFailures() bool {
	for _, s := range r.Summaries {
		if s.HasFailures() {
			return true
		}
	}
	return false
}
