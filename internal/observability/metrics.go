package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityCountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "timeanalyzer",
		Subsystem: "store",
		Name:      "activities",
		Help:      "Number of activities currently in the log.",
	})
	storeOpsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeanalyzer",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Activity store operations by operation and result.",
	}, []string{"op", "result"})
	refreshDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "timeanalyzer",
		Subsystem: "report",
		Name:      "refresh_duration_seconds",
		Help:      "Time taken to derive a report for a window.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"window"})
	insightCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeanalyzer",
		Subsystem: "report",
		Name:      "insights_total",
		Help:      "Insights emitted by severity.",
	}, []string{"severity"})
	backupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeanalyzer",
		Subsystem: "backup",
		Name:      "runs_total",
		Help:      "Backup runs by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(activityCountGauge, storeOpsCounter, refreshDuration, insightCounter, backupCounter)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func SetActivityCount(n int) {
	activityCountGauge.Set(float64(n))
}

// RecordStoreOp counts one store operation and whether it failed.
func RecordStoreOp(op string, err error) {
	storeOpsCounter.WithLabelValues(op, result(err)).Inc()
}

// ObserveRefresh records how long a report refresh for window took.
func ObserveRefresh(window string, d time.Duration) {
	refreshDuration.WithLabelValues(window).Observe(d.Seconds())
}

func RecordInsight(severity string) {
	insightCounter.WithLabelValues(severity).Inc()
}

func RecordBackup(err error) {
	backupCounter.WithLabelValues(result(err)).Inc()
}
