package metrics

import (
	"context"
	"fmt"

	"pos_emailer/internal/app"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "pos_emailer"

// Recorder turns run reports into Prometheus metrics. A batch job does not
// live long enough to be scraped, so metrics are pushed to a Pushgateway
// when one is configured.
type Recorder struct {
	registry      *prometheus.Registry
	notifications *prometheus.CounterVec
	aborted       *prometheus.CounterVec
	duration      *prometheus.GaugeVec
	lastRun       prometheus.Gauge
	pushURL       string
}

func NewRecorder(pushURL string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_emailer_notifications_total",
				Help: "Notifications handled, by procedure and outcome",
			},
			[]string{"procedure", "outcome"},
		),
		aborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_emailer_procedure_aborted_total",
				Help: "Procedures that stopped before finishing their batch",
			},
			[]string{"procedure"},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pos_emailer_procedure_duration_seconds",
				Help: "Wall time of the last run of each procedure",
			},
			[]string{"procedure"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_emailer_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		pushURL: pushURL,
	}
	r.registry.MustRegister(r.notifications, r.aborted, r.duration, r.lastRun)
	return r
}

func (r *Recorder) ObserveReport(ctx context.Context, report *app.Report) error {
	for _, s := range report.Summaries {
		procedure := string(s.Procedure)
		for _, kind := range []app.OutcomeKind{app.OutcomeSent, app.OutcomeSkipped, app.OutcomeFailed} {
			r.notifications.WithLabelValues(procedure, string(kind)).Add(float64(s.Count(kind)))
		}
		if s.Err != nil {
			r.aborted.WithLabelValues(procedure).Inc()
		}
		r.duration.WithLabelValues(procedure).Set(s.FinishedAt.Sub(s.StartedAt).Seconds())
	}
	r.lastRun.SetToCurrentTime()

	if r.pushURL == "" {
		return nil
	}
	err := push.New(r.pushURL, pushJobName).
		Gatherer(r.registry).
		Grouping("job_selector", report.Job.String()).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", r.pushURL, err)
	}
	return nil
}

// Registry exposes the underlying registry, e.g. for tests or an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
