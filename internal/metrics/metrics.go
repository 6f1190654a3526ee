// Package metrics provides Prometheus metrics for the handle refresher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "tbhandles"

var (
	// RunsTotal counts pipeline runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of refresh runs",
		},
		[]string{"status", "error_kind"},
	)

	// StageDuration measures each pipeline stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// HandlesTracked is the size of the handle list seen by the last run.
	HandlesTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "handles_tracked",
			Help:      "Number of handles listed by the last run",
		},
	)

	// ProfilesTotal counts profiles by outcome (fetched, omitted, written).
	ProfilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_total",
			Help:      "Total number of profiles processed",
		},
		[]string{"outcome"},
	)

	// LastSuccess is the unix time of the last successful run.
	LastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		},
	)
)

// RecordRun records the outcome of a run. errorKind is empty on success.
func RecordRun(status, errorKind string, finishedAt time.Time) {
	RunsTotal.WithLabelValues(status, errorKind).Inc()
	if status == "success" {
		LastSuccess.Set(float64(finishedAt.Unix()))
	}
}

// ObserveStage records how long a stage took.
func ObserveStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordProfiles adds the per-run profile counts.
func RecordProfiles(handles, fetched, omitted, written int) {
	HandlesTracked.Set(float64(handles))
	ProfilesTotal.WithLabelValues("fetched").Add(float64(fetched))
	ProfilesTotal.WithLabelValues("omitted").Add(float64(omitted))
	ProfilesTotal.WithLabelValues("written").Add(float64(written))
}

// Push sends the default registry to a Pushgateway. One-shot runs exit before
// any scrape, so this is how their metrics get out.
func Push(url, job string) error {
	return push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push()
}
