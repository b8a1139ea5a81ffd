package planner

import (
	"time"

	"github.com/campusplan/studyplan/core/model"
)

// Scoring constants. They are tuned for a stable ranking rather than an
// absolute utility value; the overdue bonus outranks any combination of the
// other terms so missed deadlines form a hard priority tier.
const (
	urgencyScale     = 100.0
	difficultyFactor = 0.15
	effortFactor     = 0.01
	overdueBonus     = 50.0
)

// daysUntil returns the whole-day distance between the task's due date and
// the reference date. Negative when the deadline has passed.
func daysUntil(dueAt time.Time, on time.Time) int {
	due := time.Date(dueAt.Year(), dueAt.Month(), dueAt.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(day).Hours() / 24)
}

// Score computes the priority of a task on a given date; higher means more
// urgent to schedule that day. remaining is the task's current ledger value,
// which shrinks as blocks are scheduled, so scores must be recomputed daily.
//
// Urgency decays inversely with the distance to the deadline: a task due
// today scores urgency 1.0, due tomorrow 0.5. Overdue tasks keep urgency
// pinned at 1.0 and receive a fixed bonus on top. Difficulty outside [1,5]
// is clamped, never rejected.
func Score(t model.Task, remaining int, on time.Time) float64 {
	days := daysUntil(t.DueAt, on)

	urgency := 1.0
	bonus := 0.0
	if days < 0 {
		bonus = overdueBonus
	} else {
		urgency = 1.0 / (float64(days) + 1.0)
	}

	diff := t.Difficulty
	if diff < 1 {
		diff = 1
	} else if diff > 5 {
		diff = 5
	}
	weight := 1.0 + difficultyFactor*float64(diff)

	penalty := 0.0
	if remaining > 0 {
		penalty = effortFactor * float64(remaining)
	}

	return urgencyScale*urgency*weight + bonus - penalty
}
