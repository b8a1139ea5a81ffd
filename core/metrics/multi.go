package metrics

import "errors"

// MultiSink fans a plan event out to several sinks. Every sink sees every
// event; errors are joined rather than short-circuiting.
type MultiSink struct {
	sinks []PlanSink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...PlanSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordPlan forwards the event to all sinks.
func (m *MultiSink) RecordPlan(ev PlanEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordPlan(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
