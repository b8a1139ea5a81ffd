package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/campusplan/studyplan/core/metrics"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	plans             *prometheus.CounterVec
	minutes           prometheus.Histogram
	narrationFailures prometheus.Counter
}

// NewPromSink registers planning metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plans_generated_total",
		Help: "Total number of generated study plans",
	}, []string{"narrated"})
	minutes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_minutes_scheduled",
		Help:    "Minutes of study time scheduled per generated plan",
		Buckets: []float64{60, 120, 240, 480, 960, 1920},
	})
	narrationFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plan_narration_failures_total",
		Help: "Total number of failed narration calls",
	})

	plans, err := registerCounterVec(reg, plans)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(minutes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			minutes = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(narrationFailures); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			narrationFailures = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{plans: plans, minutes: minutes, narrationFailures: narrationFailures}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordPlan increments the plan counters and observes the scheduled load.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(strconv.FormatBool(ev.Narrated)).Inc()
	s.minutes.Observe(float64(ev.MinutesScheduled))
	if ev.NarrationFailed {
		s.narrationFailures.Inc()
	}
	return nil
}
