package model

import (
	"fmt"
	"time"
)

// Availability defines how much time a user can study per day and how large a
// single scheduled block may grow.
type Availability struct {
	UserID         string `json:"userId"`
	WeekdayMinutes int    `json:"weekdayMinutes"`
	WeekendMinutes int    `json:"weekendMinutes"`
	ChunkMinutes   int    `json:"chunkMinutes"`
}

// DefaultAvailability returns the budgets used when a user never configured
// their own.
func DefaultAvailability(userID string) Availability {
	return Availability{
		UserID:         userID,
		WeekdayMinutes: 120,
		WeekendMinutes: 240,
		ChunkMinutes:   50,
	}
}

// Validate checks the budget bounds enforced at the API boundary. The planner
// itself assumes these hold.
func (a Availability) Validate() error {
	if a.WeekdayMinutes < 0 {
		return fmt.Errorf("weekday minutes must not be negative")
	}
	if a.WeekendMinutes < 0 {
		return fmt.Errorf("weekend minutes must not be negative")
	}
	if a.ChunkMinutes < 10 || a.ChunkMinutes > 120 {
		return fmt.Errorf("chunk minutes must be between 10 and 120")
	}
	return nil
}

// Block is one scheduled, time-bounded slice of work on a given day.
type Block struct {
	TaskID  string    `json:"taskId"`
	Title   string    `json:"title"`
	Course  string    `json:"course"`
	Minutes int       `json:"minutes"`
	DueAt   time.Time `json:"dueAt"`
}

// Day is a calendar date plus its ordered list of blocks. An empty block list
// is a normal outcome, not an error.
type Day struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Blocks []Block `json:"blocks"`
}

// Plan is the full ordered sequence of days covering the planning horizon.
type Plan []Day

// TotalMinutes sums the scheduled minutes across the whole plan.
func (p Plan) TotalMinutes() int {
	total := 0
	for _, d := range p {
		for _, b := range d.Blocks {
			total += b.Minutes
		}
	}
	return total
}
