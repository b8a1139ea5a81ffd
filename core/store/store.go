package store

import (
	"context"
	"errors"

	"github.com/campusplan/studyplan/core/model"
)

// ErrNotFound is returned when a task does not exist or was deleted.
var ErrNotFound = errors.New("not found")

// Store persists tasks and availability settings. Implementations must be
// safe for concurrent use by HTTP handlers.
type Store interface {
	CreateTask(ctx context.Context, t model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	// ListTasks returns the user's tasks ordered by due date ascending.
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id string) error

	// GetAvailability returns the stored budgets for the user, or the
	// defaults when none were configured.
	GetAvailability(ctx context.Context, userID string) (model.Availability, error)
	UpsertAvailability(ctx context.Context, a model.Availability) error

	Close() error
}
