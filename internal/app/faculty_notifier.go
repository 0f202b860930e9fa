package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos_emailer/internal/domain/faculty"
	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/domain/plan"
	idb "pos_emailer/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// FacultyNotifier sends each eligible reviewer a digest of the plans waiting on them.
type FacultyNotifier struct {
	openStore StoreOpener
	sender    notification.Sender
	renderer  *Renderer
	now       func() time.Time
}

func NewFacultyNotifier(open StoreOpener, sender notification.Sender, renderer *Renderer) *FacultyNotifier {
	return &FacultyNotifier{
		openStore: open,
		sender:    sender,
		renderer:  renderer,
		now:       time.Now,
	}
}

// reviewerRule maps a pending status to the faculty allowed to act on it.
func reviewerRule(status plan.Status) (faculty.Rule, bool) {
	switch status {
	case plan.StatusPendingFaculty:
		return faculty.GradAdvisors, true
	case plan.StatusPendingGraduateCoordinator, plan.StatusAwaitingKey, plan.StatusPendingGraduateSchool:
		return faculty.Coordinators, true
	default:
		return faculty.Rule{}, false
	}
}

func (n *FacultyNotifier) Run(ctx context.Context, log *logrus.Entry) *Summary {
	log = log.WithField("procedure", ProcedureFaculty)
	summary := newSummary(ProcedureFaculty, n.now())
	defer func() { summary.FinishedAt = n.now() }()

	store, err := n.openStore(ctx)
	if err != nil {
		summary.Err = fmt.Errorf("failed to open database: %w", err)
		return summary
	}
	defer closeStore(store, log)

	plans, err := store.Plans().ListByStatus(ctx, plan.PendingStatuses, 0)
	if err != nil {
		summary.Err = fmt.Errorf("failed to list pending plans: %w", err)
		return summary
	}
	if len(plans) == 0 {
		log.Info("No faculty POS status changes to email")
		return summary
	}

	order, groups := plan.GroupByStatus(plans)
	for _, status := range order {
		n.processStatus(ctx, store.Faculty(), status, groups[status], summary, log.WithField("status", status.Name()))
	}
	return summary
}

func (n *FacultyNotifier) processStatus(ctx context.Context, repo faculty.Repository, status plan.Status, plans []*plan.Plan, summary *Summary, log *logrus.Entry) {
	ids := posIDs(plans)

	rule, ok := reviewerRule(status)
	if !ok {
		log.Warn("Status not configured for faculty notification, skipping")
		summary.record(skipped(status, "status not notifiable", ids...))
		return
	}

	reviewers, err := repo.ListEligible(ctx, rule)
	if err != nil {
		summary.record(failed(status, "reviewer lookup failed", err, ids...))
		return
	}
	if len(reviewers) == 0 {
		log.WithField("permissions", rule.String()).Warn("No faculty found for status")
		summary.record(skipped(status, "no eligible reviewers", ids...))
		return
	}
	log.WithFields(logrus.Fields{"plans": len(plans), "reviewers": len(reviewers)}).Debug("Notifying reviewers")

	for _, reviewer := range reviewers {
		o := n.processReviewer(ctx, repo, status, plans, reviewer, log.WithField("reviewer", reviewer.PID))
		o.Reviewer = reviewer.PID
		summary.record(o)
	}
}

func (n *FacultyNotifier) processReviewer(ctx context.Context, repo faculty.Repository, status plan.Status, plans []*plan.Plan, reviewer *faculty.Faculty, log *logrus.Entry) Outcome {
	toSend := plans
	if status == plan.StatusPendingFaculty {
		toSend = chairedBy(plans, reviewer.PID)
		if len(toSend) == 0 {
			log.Debug("Reviewer chairs none of the pending plans, skipping")
			return skipped(status, "not committee chair on any pending plan")
		}
	}
	ids := posIDs(toSend)

	to := n.recipient(ctx, repo, reviewer.PID, log)
	msg, err := n.renderer.PendingReview(to, status, toSend)
	if err != nil {
		return failed(status, "failed to render digest", err, ids...)
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		o := failed(status, "failed to send reviewer digest", err, ids...)
		o.Recipient = to
		return o
	}
	log.WithFields(logrus.Fields{"recipient": to, "plans": len(toSend)}).Info("Sent reviewer digest")
	return sent(status, to, ids...)
}

// recipient looks up the reviewer's address on file and falls back to the
// institutional address when it is missing, empty, or the lookup fails.
func (n *FacultyNotifier) recipient(ctx context.Context, repo faculty.Repository, pid string, log *logrus.Entry) string {
	f, err := repo.GetByPID(ctx, pid)
	if err != nil {
		if !errors.Is(err, idb.ErrFacultyNotFound) {
			log.WithError(err).Warn("Email lookup failed, using institutional address")
		}
		return n.renderer.Address(pid)
	}
	if !f.Email.Valid || strings.TrimSpace(f.Email.String) == "" {
		return n.renderer.Address(pid)
	}
	return strings.TrimSpace(f.Email.String)
}

func chairedBy(plans []*plan.Plan, pid string) []*plan.Plan {
	out := make([]*plan.Plan, 0)
	for _, p := range plans {
		if p.ChairedBy(pid) {
			out = append(out, p)
		}
	}
	return out
}

func posIDs(plans []*plan.Plan) []int64 {
	ids := make([]int64, len(plans))
	for i, p := range plans {
		ids[i] = p.POSID
	}
	return ids
}
