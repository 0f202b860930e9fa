package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunFunc is one pass of the job.
type RunFunc func(ctx context.Context)

// JobScheduler triggers the emailer on a cron spec when no external scheduler is used.
type JobScheduler struct {
	cronEngine *cron.Cron
	job        cron.Job
	run        RunFunc
	logger     *logrus.Entry
	cronSpec   string
	timeout    time.Duration
}

func NewJobScheduler(run RunFunc, logger *logrus.Entry, cronSpec string, timeout time.Duration) *JobScheduler {
	s := &JobScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		run:        run,
		logger:     logger,
		cronSpec:   cronSpec,
		timeout:    timeout,
	}
	// Cron ticks and RunOnce share one wrapped job, so passes never overlap.
	s.job = cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))).Then(cron.FuncJob(s.runWithTimeout))
	return s
}

func (s *JobScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting POS emailer scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered")
		s.job.Run()
	})
	if err != nil {
		return fmt.Errorf("could not add cron job with spec %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	return nil
}

// RunOnce executes a single pass under the configured timeout. It is skipped
// when a pass is already running.
func (s *JobScheduler) RunOnce() {
	s.job.Run()
}

func (s *JobScheduler) runWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.run(ctx)
}

// Next returns when the job fires next; zero before Start.
func (s *JobScheduler) Next() time.Time {
	entries := s.cronEngine.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *JobScheduler) Stop() {
	s.logger.Info("Stopping POS emailer scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("POS emailer scheduler gracefully stopped.")
}
