package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/domain/plan"
	idb "pos_emailer/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// StudentNotifier tells students their plan was approved or rejected.
type StudentNotifier struct {
	openStore StoreOpener
	sender    notification.Sender
	renderer  *Renderer
	limit     int
	window    time.Duration
	now       func() time.Time
}

// NewStudentNotifier builds the student pass. limit caps how many decided
// plans are read per run; window bounds how old an approval may be and still be mailed.
func NewStudentNotifier(open StoreOpener, sender notification.Sender, renderer *Renderer, limit int, window time.Duration) *StudentNotifier {
	return &StudentNotifier{
		openStore: open,
		sender:    sender,
		renderer:  renderer,
		limit:     limit,
		window:    window,
		now:       time.Now,
	}
}

func (n *StudentNotifier) Run(ctx context.Context, log *logrus.Entry) *Summary {
	log = log.WithField("procedure", ProcedureStudent)
	summary := newSummary(ProcedureStudent, n.now())
	defer func() { summary.FinishedAt = n.now() }()

	store, err := n.openStore(ctx)
	if err != nil {
		summary.Err = fmt.Errorf("failed to open database: %w", err)
		return summary
	}
	defer closeStore(store, log)

	plans, err := store.Plans().ListByStatus(ctx, plan.DecidedStatuses, n.limit)
	if err != nil {
		summary.Err = fmt.Errorf("failed to list decided plans: %w", err)
		return summary
	}
	if len(plans) == 0 {
		log.Info("No student POS status changes to email")
		return summary
	}
	log.WithField("plans", len(plans)).Debug("Processing decided plans")

	// Evaluate the window against a single instant so the whole batch agrees.
	now := n.now()
	for _, p := range plans {
		summary.record(n.processPlan(ctx, store.Plans(), p, now, log))
	}
	return summary
}

func (n *StudentNotifier) processPlan(ctx context.Context, repo plan.Repository, p *plan.Plan, now time.Time, log *logrus.Entry) Outcome {
	planLog := log.WithFields(logrus.Fields{"pos_id": p.POSID, "pid": p.PID, "status": p.CurrentStatus.Name()})

	var msg notification.Message
	var err error
	switch p.CurrentStatus {
	case plan.StatusRejected:
		msg, err = n.renderer.Rejected(p.PID)
	case plan.StatusApproved:
		history, lookupErr := repo.LatestHistory(ctx, p.POSID)
		if lookupErr != nil {
			if errors.Is(lookupErr, idb.ErrHistoryNotFound) {
				planLog.Debug("No history found, skipping")
				return skipped(p.CurrentStatus, "no history entry", p.POSID)
			}
			return failed(p.CurrentStatus, "history lookup failed", lookupErr, p.POSID)
		}
		if reason, ok := approvalDue(history, now, n.window); !ok {
			planLog.Debug(reason)
			return skipped(p.CurrentStatus, reason, p.POSID)
		}
		msg, err = n.renderer.Approved(p.PID)
	default:
		return skipped(p.CurrentStatus, "status is not a student decision", p.POSID)
	}
	if err != nil {
		return failed(p.CurrentStatus, "failed to render email", err, p.POSID)
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		o := failed(p.CurrentStatus, "failed to send student email", err, p.POSID)
		o.Recipient = msg.To
		return o
	}
	planLog.WithField("recipient", msg.To).Info("Sent student notification")
	return sent(p.CurrentStatus, msg.To, p.POSID)
}

// approvalDue decides whether an approved plan is still inside the
// notification window. The latest history entry must itself be the approval,
// carry a timestamp, and be younger than window.
func approvalDue(h *plan.HistoryEntry, now time.Time, window time.Duration) (string, bool) {
	if h.Status != plan.StatusApproved {
		return fmt.Sprintf("latest history status is %s, not %s", h.Status.Name(), plan.StatusApproved.Name()), false
	}
	age, ok := h.Age(now)
	if !ok {
		return "history entry has no change timestamp", false
	}
	if age >= window {
		return fmt.Sprintf("approved %s ago, outside the %s window", age.Round(time.Minute), window), false
	}
	return "", true
}
