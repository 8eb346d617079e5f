package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	runOutcomeSuccess = "success"
	runOutcomeLocked  = "locked"
	runOutcomeFailed  = "failed"
)

type Metrics struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	candidates    prometheus.Gauge
	groups        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gokon",
			Subsystem: "matching",
			Name:      "runs_total",
			Help:      "Matching runs by outcome.",
		}, []string{"outcome"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gokon",
			Subsystem: "matching",
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed matching runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		candidates: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "gokon",
			Subsystem: "matching",
			Name:      "last_run_candidates",
			Help:      "Candidates considered by the most recent run.",
		}),
		groups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gokon",
			Subsystem: "matching",
			Name:      "groups_total",
			Help:      "Groups proposed by the matcher by persistence result.",
		}, []string{"result"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gokon",
			Subsystem: "matching",
			Name:      "notifications_total",
			Help:      "Match notifications by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeRun(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeResult(stats RunStats, seconds float64) {
	if m == nil {
		return
	}
	m.runDuration.Observe(seconds)
	m.candidates.Set(float64(stats.TotalCandidates))
	m.groups.WithLabelValues("created").Add(float64(stats.ActualGroupsCreated))
	m.groups.WithLabelValues("failed").Add(float64(stats.FailedGroups))
	m.notifications.WithLabelValues("sent").Add(float64(stats.NotificationsSent))
	m.notifications.WithLabelValues("skipped").Add(float64(stats.NotificationsSkipped))
	m.notifications.WithLabelValues("failed").Add(float64(stats.NotificationsFailed))
}
