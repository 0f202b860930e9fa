package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Job selects which procedures a run executes.
type Job int

const (
	JobAll Job = iota
	JobFaculty
	JobStudent
)

// ParseJob maps the scheduler's job selector onto a Job. Anything other than
// "faculty" or "pos-student", including an empty value, runs both.
func ParseJob(s string) Job {
	switch s {
	case "faculty":
		return JobFaculty
	case "pos-student":
		return JobStudent
	default:
		return JobAll
	}
}

func (j Job) String() string {
	switch j {
	case JobFaculty:
		return "faculty"
	case JobStudent:
		return "pos-student"
	default:
		return "all"
	}
}

// Runner is one notification procedure.
type Runner interface {
	Run(ctx context.Context, log *logrus.Entry) *Summary
}

// ReportObserver is told about every finished run, e.g. to export metrics or alert an operator.
type ReportObserver interface {
	ObserveReport(ctx context.Context, report *Report) error
}

// Router dispatches a run to the faculty and/or student procedure.
type Router struct {
	faculty   Runner
	student   Runner
	observers []ReportObserver
	logger    *logrus.Logger
}

func NewRouter(facultyRunner, studentRunner Runner, logger *logrus.Logger, observers ...ReportObserver) *Router {
	return &Router{
		faculty:   facultyRunner,
		student:   studentRunner,
		observers: observers,
		logger:    logger,
	}
}

// Run executes the selected procedures in order (faculty before student).
// A failing procedure never stops the next one; failures are reported in the returned Report.
func (r *Router) Run(ctx context.Context, job Job) *Report {
	report := &Report{RunID: uuid.NewString(), Job: job}
	log := r.logger.WithFields(logrus.Fields{"run_id": report.RunID, "job": job.String()})
	log.Info("Starting POS emailer run")

	var runners []Runner
	switch job {
	case JobFaculty:
		runners = []Runner{r.faculty}
	case JobStudent:
		runners = []Runner{r.student}
	default:
		runners = []Runner{r.faculty, r.student}
	}

	for _, runner := range runners {
		summary := runner.Run(ctx, log)
		summary.Log(log)
		report.Summaries = append(report.Summaries, summary)
	}

	for _, o := range r.observers {
		if err := o.ObserveReport(ctx, report); err != nil {
			log.WithError(err).Warn("Report observer failed")
		}
	}

	log.WithField("failures", report.HasFailures()).Info("POS emailer run complete")
	return report
}
