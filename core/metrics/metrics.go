package metrics

import "time"

// PlanEvent captures one planning run for observability purposes.
type PlanEvent struct {
	UserID           string
	HorizonDays      int
	TasksConsidered  int
	Blocks           int
	MinutesScheduled int
	LoadStddev       float64
	Narrated         bool
	NarrationFailed  bool
	Duration         time.Duration
	Time             time.Time
}

// PlanSink records planning runs.
type PlanSink interface {
	RecordPlan(ev PlanEvent) error
}

// NopSink implements PlanSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error { return nil }
