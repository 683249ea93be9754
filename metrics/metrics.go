package metrics

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/qase-community/qase-relay/types"
)

const (
	MetricsNamespace = "qase_relay"
)

var (
	Debug bool = true

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	executionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "executions_total",
		Help:      "Count of reconciled executions",
	}, []string{
		"project",
		"run_id",
		"result",
	})

	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "submissions_total",
		Help:      "Count of submitted results",
	}, []string{
		"project",
		"run_id",
	})

	relayDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "relay_duration_seconds",
		Help:      "Duration of the relay pipeline",
	}, []string{
		"project",
		"run_id",
	})
)

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordExecution counts one reconciled execution and its verdict.
func RecordExecution(project string, runID string, result types.Status) {
	if Debug {
		log.Debug("metric inc",
			"m", "executions_total",
			"project", project,
			"run_id", runID,
			"result", result)
	}
	executionsTotal.WithLabelValues(project, runID, string(result)).Inc()
}

// RecordRelay records the totals for one relay invocation.
func RecordRelay(project string, runID string, submitted int, duration time.Duration) {
	submissionsTotal.WithLabelValues(project, runID).Add(float64(submitted))
	relayDuration.WithLabelValues(project, runID).Set(duration.Seconds())
}
