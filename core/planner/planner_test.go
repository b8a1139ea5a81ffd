package planner

import (
	"reflect"
	"testing"
	"time"

	"github.com/campusplan/studyplan/core/model"
)

// monday is a fixed weekday start so weekend budgets only apply where the
// tests expect them.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

var friday = monday.AddDate(0, 0, 4)

func newTask(id string, due time.Time, remaining, difficulty int) model.Task {
	return model.Task{
		ID:               id,
		Title:            "Task " + id,
		Course:           "CRS" + id,
		DueAt:            due,
		RemainingMinutes: remaining,
		Difficulty:       difficulty,
	}
}

func avail(weekday, weekend, chunk int) model.Availability {
	return model.Availability{
		WeekdayMinutes: weekday,
		WeekendMinutes: weekend,
		ChunkMinutes:   chunk,
	}
}

func scheduledPerTask(p model.Plan) map[string]int {
	out := map[string]int{}
	for _, d := range p {
		for _, b := range d.Blocks {
			out[b.TaskID] += b.Minutes
		}
	}
	return out
}

func TestGenerate_ExampleScenario(t *testing.T) {
	// A: 150 min, difficulty 3, due in 2 days. B: 40 min, difficulty 5,
	// due tomorrow. Weekday budget 120, chunk 50, horizon 3.
	tasks := []model.Task{
		newTask("A", monday.AddDate(0, 0, 2), 150, 3),
		newTask("B", monday.AddDate(0, 0, 1), 40, 5),
	}
	plan := New().Generate(tasks, avail(120, 240, 50), monday, 3)

	if len(plan) != 3 {
		t.Fatalf("plan covers %d days, want 3", len(plan))
	}

	day1 := plan[0].Blocks
	if len(day1) != 3 {
		t.Fatalf("day 1 has %d blocks, want 3: %+v", len(day1), day1)
	}
	// B scores higher (due sooner, harder) and its full 40 minutes fit in
	// one chunk; A then fills the remaining 80 minutes as 50+30.
	wantDay1 := []struct {
		id      string
		minutes int
	}{{"B", 40}, {"A", 50}, {"A", 30}}
	for i, want := range wantDay1 {
		if day1[i].TaskID != want.id || day1[i].Minutes != want.minutes {
			t.Fatalf("day 1 block %d = %s/%d, want %s/%d",
				i, day1[i].TaskID, day1[i].Minutes, want.id, want.minutes)
		}
	}

	day2 := plan[1].Blocks
	if len(day2) != 2 || day2[0].Minutes != 50 || day2[1].Minutes != 20 {
		t.Fatalf("day 2 should exhaust A as 50+20, got %+v", day2)
	}

	if len(plan[2].Blocks) != 0 {
		t.Fatalf("day 3 should be empty, got %+v", plan[2].Blocks)
	}
}

func TestGenerate_Conservation(t *testing.T) {
	tasks := []model.Task{
		newTask("a", monday.AddDate(0, 0, 1), 95, 2),
		newTask("b", monday.AddDate(0, 0, 3), 160, 4),
		newTask("c", monday.AddDate(0, 0, 5), 30, 3),
	}
	plan := New().Generate(tasks, avail(120, 180, 45), monday, 7)

	got := scheduledPerTask(plan)
	for _, tk := range tasks {
		if got[tk.ID] > tk.RemainingMinutes {
			t.Errorf("task %s over-allocated: %d > %d", tk.ID, got[tk.ID], tk.RemainingMinutes)
		}
	}
	// The horizon offers far more capacity than the backlog, so every task
	// must finish exactly.
	for _, tk := range tasks {
		if got[tk.ID] != tk.RemainingMinutes {
			t.Errorf("task %s scheduled %d minutes, want %d", tk.ID, got[tk.ID], tk.RemainingMinutes)
		}
	}
}

func TestGenerate_BudgetRespected(t *testing.T) {
	tasks := []model.Task{
		newTask("a", monday, 500, 5),
		newTask("b", monday.AddDate(0, 0, 1), 500, 5),
	}
	a := avail(90, 150, 40)
	plan := New().Generate(tasks, a, monday, 10)

	for i, d := range plan {
		day := monday.AddDate(0, 0, i)
		budget := a.WeekdayMinutes
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			budget = a.WeekendMinutes
		}
		total := 0
		for _, b := range d.Blocks {
			total += b.Minutes
		}
		if total > budget {
			t.Errorf("day %s scheduled %d minutes over budget %d", d.Date, total, budget)
		}
	}
}

func TestGenerate_ChunkBound(t *testing.T) {
	tasks := []model.Task{
		newTask("a", monday.AddDate(0, 0, 2), 333, 3),
		newTask("b", monday.AddDate(0, 0, 4), 47, 1),
	}
	plan := New().Generate(tasks, avail(240, 240, 60), monday, 5)

	for _, d := range plan {
		for _, b := range d.Blocks {
			if b.Minutes < 1 || b.Minutes > 60 {
				t.Errorf("block of %d minutes outside [1,60] on %s", b.Minutes, d.Date)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	tasks := []model.Task{
		newTask("x", monday.AddDate(0, 0, 3), 90, 3),
		newTask("y", monday.AddDate(0, 0, 3), 90, 3), // exact tie with x
		newTask("z", monday.AddDate(0, 0, 1), 200, 2),
	}
	a := avail(100, 200, 35)
	first := New().Generate(tasks, a, monday, 7)
	for i := 0; i < 5; i++ {
		if again := New().Generate(tasks, a, monday, 7); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}

	// Tie-break is the canonical order (due date, then ID), not caller
	// order: reversing the input must not change the plan.
	reversed := []model.Task{tasks[2], tasks[1], tasks[0]}
	if got := New().Generate(reversed, a, monday, 7); !reflect.DeepEqual(first, got) {
		t.Fatal("plan depends on caller ordering of tied tasks")
	}
}

func TestGenerate_HorizonCompleteness(t *testing.T) {
	tasks := []model.Task{newTask("a", monday, 20, 3)}
	plan := New().Generate(tasks, avail(120, 240, 50), monday, 14)
	if len(plan) != 14 {
		t.Fatalf("plan covers %d days, want 14", len(plan))
	}
	for i, d := range plan {
		want := monday.AddDate(0, 0, i).Format("2006-01-02")
		if d.Date != want {
			t.Errorf("day %d dated %s, want %s", i, d.Date, want)
		}
	}
	// Work finishes on day one; the rest of the horizon stays, empty.
	for _, d := range plan[1:] {
		if len(d.Blocks) != 0 {
			t.Errorf("expected trailing empty day, got blocks on %s", d.Date)
		}
	}
}

func TestGenerate_OverdueDominance(t *testing.T) {
	tasks := []model.Task{
		newTask("fresh", monday.AddDate(0, 0, 2), 60, 3),
		newTask("late", monday.AddDate(0, 0, -3), 60, 3),
	}
	plan := New().Generate(tasks, avail(120, 240, 30), monday, 2)

	// Each day both tasks still owe time, the overdue task must be ranked
	// first: its first block precedes the pending task's first block.
	for _, d := range plan {
		firstLate, firstFresh := -1, -1
		for i, b := range d.Blocks {
			if b.TaskID == "late" && firstLate < 0 {
				firstLate = i
			}
			if b.TaskID == "fresh" && firstFresh < 0 {
				firstFresh = i
			}
		}
		if firstLate >= 0 && firstFresh >= 0 && firstLate > firstFresh {
			t.Fatalf("overdue task ranked after pending task on %s: %+v", d.Date, d.Blocks)
		}
	}
}

func TestGenerate_ExactChunkNeverSplit(t *testing.T) {
	tasks := []model.Task{newTask("a", monday.AddDate(0, 0, 1), 50, 3)}
	plan := New().Generate(tasks, avail(120, 240, 50), monday, 1)

	if len(plan[0].Blocks) != 1 {
		t.Fatalf("expected a single block, got %+v", plan[0].Blocks)
	}
	if plan[0].Blocks[0].Minutes != 50 {
		t.Fatalf("block of %d minutes, want 50", plan[0].Blocks[0].Minutes)
	}
}

func TestGenerate_FinalBlockTruncatedToBudget(t *testing.T) {
	// Budget is not a multiple of the chunk size; the last block of the day
	// must shrink to fit exactly.
	tasks := []model.Task{newTask("a", monday.AddDate(0, 0, 1), 500, 3)}
	plan := New().Generate(tasks, avail(110, 240, 50), monday, 1)

	blocks := plan[0].Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %+v", blocks)
	}
	if blocks[0].Minutes != 50 || blocks[1].Minutes != 50 || blocks[2].Minutes != 10 {
		t.Fatalf("expected 50+50+10, got %+v", blocks)
	}
}

func TestGenerate_ZeroWeekendBudget(t *testing.T) {
	tasks := []model.Task{newTask("a", friday.AddDate(0, 0, 7), 600, 3)}
	plan := New().Generate(tasks, avail(120, 0, 50), friday, 4)

	// friday, saturday, sunday, monday
	if len(plan[0].Blocks) == 0 {
		t.Error("friday should be scheduled")
	}
	if len(plan[1].Blocks) != 0 || len(plan[2].Blocks) != 0 {
		t.Errorf("weekend days must stay empty with a zero weekend budget: %+v / %+v",
			plan[1].Blocks, plan[2].Blocks)
	}
	if len(plan[3].Blocks) == 0 {
		t.Error("monday should resume scheduling")
	}
}

func TestGenerate_EmptyTaskList(t *testing.T) {
	plan := New().Generate(nil, avail(120, 240, 50), monday, 7)
	if len(plan) != 7 {
		t.Fatalf("plan covers %d days, want 7", len(plan))
	}
	for _, d := range plan {
		if len(d.Blocks) != 0 {
			t.Fatalf("expected empty day, got %+v", d.Blocks)
		}
	}
}

func TestGenerate_RoundRobinInterleavesTopTasks(t *testing.T) {
	// Three equal heavy tasks and a small chunk force interleaving laps:
	// the highest-ranked task is visited first on every lap.
	tasks := []model.Task{
		newTask("a", monday.AddDate(0, 0, 1), 200, 3),
		newTask("b", monday.AddDate(0, 0, 2), 200, 3),
		newTask("c", monday.AddDate(0, 0, 3), 200, 3),
	}
	plan := New().Generate(tasks, avail(180, 240, 30), monday, 1)

	var order []string
	for _, b := range plan[0].Blocks {
		order = append(order, b.TaskID)
	}
	want := []string{"a", "b", "c", "a", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("block order %v, want %v", order, want)
	}
}

func TestGenerate_DoesNotMutateInput(t *testing.T) {
	tasks := []model.Task{
		newTask("a", monday.AddDate(0, 0, 1), 90, 3),
		newTask("b", monday.AddDate(0, 0, 2), 90, 3),
	}
	before := make([]model.Task, len(tasks))
	copy(before, tasks)

	New().Generate(tasks, avail(120, 240, 50), monday, 7)

	if !reflect.DeepEqual(tasks, before) {
		t.Fatal("Generate mutated the caller's task slice")
	}
}

func TestGenerate_LedgerCarriesAcrossDays(t *testing.T) {
	// One task larger than a day's budget keeps its reduced remainder the
	// next day instead of starting over.
	tasks := []model.Task{newTask("a", monday.AddDate(0, 0, 5), 200, 3)}
	plan := New().Generate(tasks, avail(120, 240, 60), monday, 3)

	dayTotals := make([]int, 3)
	for i, d := range plan {
		for _, b := range d.Blocks {
			dayTotals[i] += b.Minutes
		}
	}
	if dayTotals[0] != 120 || dayTotals[1] != 80 || dayTotals[2] != 0 {
		t.Fatalf("daily totals %v, want [120 80 0]", dayTotals)
	}
}
