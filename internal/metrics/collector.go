// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector instruments task execution across the delegation tree.
// A nil *Collector is valid and records nothing, so nodes can run
// uninstrumented in tests.
type Collector struct {
	tasksTotal         *prometheus.CounterVec
	taskDuration       *prometheus.HistogramVec
	delegationsSkipped *prometheus.CounterVec
	escalationsTotal   *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers the marketflow metric families under namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.tasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Total number of tasks executed by nodes",
		},
		[]string{"role", "kind", "status"},
	)

	c.taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Task execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"role", "kind"},
	)

	c.delegationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delegations_skipped_total",
			Help:      "Subordinate calls excluded from aggregation",
		},
		[]string{"role", "reason"},
	)

	c.escalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Authority-threshold escalations recorded",
		},
		[]string{"role"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordTask counts one executed task and observes its duration.
func (c *Collector) RecordTask(role, kind, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.tasksTotal.WithLabelValues(role, kind, status).Inc()
	c.taskDuration.WithLabelValues(role, kind).Observe(duration.Seconds())
}

// RecordSkip counts a delegated call excluded from aggregation.
func (c *Collector) RecordSkip(role, reason string) {
	if c == nil {
		return
	}
	c.delegationsSkipped.WithLabelValues(role, reason).Inc()
}

// RecordEscalation counts an authority escalation recorded by role.
func (c *Collector) RecordEscalation(role string) {
	if c == nil {
		return
	}
	c.escalationsTotal.WithLabelValues(role).Inc()
}
