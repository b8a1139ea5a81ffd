package planner

import (
	"math"
	"testing"

	"github.com/campusplan/studyplan/core/model"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalMinutes != 0 || s.TotalBlocks != 0 || s.BusiestDate != "" {
		t.Fatalf("empty plan summary not zero: %+v", s)
	}
}

func TestSummarize_Stats(t *testing.T) {
	plan := model.Plan{
		{Date: "2026-03-02", Blocks: []model.Block{{TaskID: "a", Minutes: 60}, {TaskID: "b", Minutes: 60}}},
		{Date: "2026-03-03", Blocks: []model.Block{{TaskID: "a", Minutes: 40}}},
		{Date: "2026-03-04", Blocks: []model.Block{}},
	}
	s := Summarize(plan)

	if s.TotalMinutes != 160 {
		t.Errorf("total minutes = %d, want 160", s.TotalMinutes)
	}
	if s.TotalBlocks != 3 {
		t.Errorf("total blocks = %d, want 3", s.TotalBlocks)
	}
	if s.ActiveDays != 2 {
		t.Errorf("active days = %d, want 2", s.ActiveDays)
	}
	if s.BusiestDate != "2026-03-02" {
		t.Errorf("busiest date = %s, want 2026-03-02", s.BusiestDate)
	}
	if math.Abs(s.MeanMinutes-160.0/3.0) > 1e-9 {
		t.Errorf("mean = %v, want %v", s.MeanMinutes, 160.0/3.0)
	}
	if s.StddevMinutes <= 0 {
		t.Errorf("stddev = %v, want > 0 for uneven plan", s.StddevMinutes)
	}
}

func TestSummarize_EvenPlanHasZeroSpread(t *testing.T) {
	plan := model.Plan{
		{Date: "2026-03-02", Blocks: []model.Block{{Minutes: 50}}},
		{Date: "2026-03-03", Blocks: []model.Block{{Minutes: 50}}},
	}
	s := Summarize(plan)
	if s.StddevMinutes != 0 {
		t.Fatalf("stddev = %v, want 0", s.StddevMinutes)
	}
}
