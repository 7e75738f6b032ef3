package out

import (
	"context"

	"microwins/internal/modules/tasksession/domain"
)

type Backend interface {
	CreateTask(ctx context.Context, req domain.CreateRequest) (taskID string, err error)
	CurrentStep(ctx context.Context, taskID string) (domain.Step, error)
	MarkStepDone(ctx context.Context, taskID string) error
}

// TaskStore persists the current task id. Load returns
// apperrors.ErrNoActiveTask when nothing is stored.
type TaskStore interface {
	Save(ctx context.Context, task domain.StoredTask) error
	Load(ctx context.Context) (domain.StoredTask, error)
	Clear(ctx context.Context) error
}

type Preferences interface {
	Snapshot(ctx context.Context, energy string) (domain.Settings, error)
}

// Transcript receives the user-facing events of the session.
type Transcript interface {
	User(text string)
	Assistant(text string)
	Step(session domain.Session)
	SaveHistory(ctx context.Context, title, mode string) error
}

type FocusTimer interface {
	Arm(seconds int)
	Stop()
}
