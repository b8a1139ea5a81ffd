package planner

import (
	"gonum.org/v1/gonum/stat"

	"github.com/campusplan/studyplan/core/model"
)

// PlanSummary aggregates load statistics over a generated plan. The spread
// figures describe how evenly work is distributed across the horizon.
type PlanSummary struct {
	TotalMinutes  int     `json:"totalMinutes"`
	TotalBlocks   int     `json:"totalBlocks"`
	ActiveDays    int     `json:"activeDays"`
	MeanMinutes   float64 `json:"meanMinutesPerDay"`
	StddevMinutes float64 `json:"stddevMinutesPerDay"`
	BusiestDate   string  `json:"busiestDate,omitempty"`
}

// Summarize computes load statistics for a plan. Mean and stddev are taken
// over all days of the horizon, including empty ones, so a front-loaded plan
// reports a larger spread than an even one.
func Summarize(p model.Plan) PlanSummary {
	s := PlanSummary{}
	if len(p) == 0 {
		return s
	}

	daily := make([]float64, len(p))
	busiest, busiestMinutes := 0, -1
	for i, d := range p {
		minutes := 0
		for _, b := range d.Blocks {
			minutes += b.Minutes
		}
		daily[i] = float64(minutes)
		s.TotalMinutes += minutes
		s.TotalBlocks += len(d.Blocks)
		if len(d.Blocks) > 0 {
			s.ActiveDays++
		}
		if minutes > busiestMinutes {
			busiest, busiestMinutes = i, minutes
		}
	}

	s.MeanMinutes = stat.Mean(daily, nil)
	if len(daily) > 1 {
		s.StddevMinutes = stat.StdDev(daily, nil)
	}
	if s.TotalMinutes > 0 {
		s.BusiestDate = p[busiest].Date
	}
	return s
}
