package narrate

import (
	"context"
	"errors"

	"github.com/campusplan/studyplan/core/model"
)

// ErrNotConfigured is returned when no narration backend is available,
// typically because the API key is missing.
var ErrNotConfigured = errors.New("narrator not configured")

// Narrator turns a computed plan into a short prose explanation. It is an
// external, fallible collaborator: a narration failure must never invalidate
// or block delivery of the plan itself.
type Narrator interface {
	Explain(ctx context.Context, tasks []model.Task, plan model.Plan) (string, error)
}

// Nop is a Narrator that always reports itself unconfigured.
type Nop struct{}

func (Nop) Explain(context.Context, []model.Task, model.Plan) (string, error) {
	return "", ErrNotConfigured
}
