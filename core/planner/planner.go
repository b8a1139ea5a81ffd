package planner

import (
	"sort"
	"time"

	"github.com/campusplan/studyplan/core/model"
)

// DefaultHorizonDays is the number of days planned when the caller does not
// ask for a specific horizon.
const DefaultHorizonDays = 7

// Planner produces multi-day study plans. It is stateless; every call to
// Generate owns its own remaining-minutes ledger, so concurrent runs need no
// coordination.
type Planner struct{}

// New returns a Planner.
func New() *Planner {
	return &Planner{}
}

// Generate builds a plan covering exactly days Day records starting at start.
// Tasks are expected to be pre-filtered to remaining minutes > 0; budgets are
// expected to satisfy model.Availability.Validate. The input slice is never
// mutated.
//
// Each day the candidates still owing time are re-ranked by Score against
// their current ledger value, then consumed round-robin in chunks of at most
// avail.ChunkMinutes until the day's budget runs out or no candidate remains.
func (p *Planner) Generate(tasks []model.Task, avail model.Availability, start time.Time, days int) model.Plan {
	// Canonical ordering: due date ascending, then ID. This is the
	// documented tie-break for equal scores, instead of whatever order the
	// caller happened to pass.
	ordered := make([]model.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].DueAt.Equal(ordered[j].DueAt) {
			return ordered[i].DueAt.Before(ordered[j].DueAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	ledger := make(map[string]int, len(ordered))
	for _, t := range ordered {
		ledger[t.ID] = t.RemainingMinutes
	}

	plan := make(model.Plan, 0, days)

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		budget := avail.WeekdayMinutes
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			budget = avail.WeekendMinutes
		}

		var candidates []model.Task
		for _, t := range ordered {
			if ledger[t.ID] > 0 {
				candidates = append(candidates, t)
			}
		}

		blocks := []model.Block{}
		if len(candidates) > 0 && budget > 0 {
			// Rank by today's score against the current ledger. The sort
			// must be stable so equal scores keep the canonical order.
			sort.SliceStable(candidates, func(a, b int) bool {
				return Score(candidates[a], ledger[candidates[a].ID], day) >
					Score(candidates[b], ledger[candidates[b].ID], day)
			})

			// Round-robin over the ranked candidates with an explicit
			// cursor. Exhausted entries are removed immediately, so no
			// zero-minute block can ever be emitted; the cursor is clamped
			// back into bounds after every step.
			cursor := 0
			for budget > 0 && len(candidates) > 0 {
				t := candidates[cursor]
				size := avail.ChunkMinutes
				if rem := ledger[t.ID]; rem < size {
					size = rem
				}
				if budget < size {
					size = budget
				}

				blocks = append(blocks, model.Block{
					TaskID:  t.ID,
					Title:   t.Title,
					Course:  t.Course,
					Minutes: size,
					DueAt:   t.DueAt,
				})
				ledger[t.ID] -= size
				budget -= size

				if ledger[t.ID] <= 0 {
					candidates = append(candidates[:cursor], candidates[cursor+1:]...)
				} else {
					cursor++
				}
				if cursor >= len(candidates) {
					cursor = 0
				}
			}
		}

		plan = append(plan, model.Day{
			Date:   day.Format("2006-01-02"),
			Blocks: blocks,
		})
	}

	return plan
}
