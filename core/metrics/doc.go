// Package metrics defines the interfaces used to record planning activity.
// Sinks like PromSink and InfluxSink under infra/metrics consume PlanEvent
// records and can be combined with NewMultiSink. Sink failures are
// observability problems, never planning problems.
package metrics
