package model

import (
	"fmt"
	"time"
)

// TaskType categorizes the kind of study work a task represents.
type TaskType string

const (
	TaskAssignment TaskType = "assignment"
	TaskExam       TaskType = "exam"
	TaskReading    TaskType = "reading"
	TaskProject    TaskType = "project"
	TaskOther      TaskType = "other"
)

// TaskStatus marks whether a task still needs work.
type TaskStatus string

const (
	StatusActive TaskStatus = "active"
	StatusDone   TaskStatus = "done"
)

// Task represents a unit of study work with a deadline, an effort estimate
// and a difficulty rating.
type Task struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Title  string    `json:"title"`
	Course string    `json:"course"`
	DueAt  time.Time `json:"dueAt"`

	EstMinutes       int `json:"estMinutes"`
	RemainingMinutes int `json:"remainingMinutes"`

	// Difficulty is rated 1 (easy) to 5 (hard). Out-of-range values are
	// clamped by the scorer, not rejected.
	Difficulty int        `json:"difficulty"`
	Type       TaskType   `json:"taskType"`
	Status     TaskStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks that the task carries a sound effort estimate.
func (t Task) Validate() error {
	if t.EstMinutes < 1 {
		return fmt.Errorf("estimated minutes must be at least 1")
	}
	if t.RemainingMinutes < 0 {
		return fmt.Errorf("remaining minutes must not be negative")
	}
	return nil
}

// ValidTaskType reports whether s names a known task type.
func ValidTaskType(s string) bool {
	switch TaskType(s) {
	case TaskAssignment, TaskExam, TaskReading, TaskProject, TaskOther:
		return true
	}
	return false
}
