package service

import (
	"context"
	"fmt"
	"strings"

	"microwins/internal/modules/tasksession/domain"
	taskout "microwins/internal/modules/tasksession/port/out"
	"microwins/internal/platform/clock"
	apperrors "microwins/internal/platform/errors"
)

type SessionService struct {
	clock   clock.Clock
	backend taskout.Backend
	store   taskout.TaskStore
	userID  string
}

func NewSessionService(clock clock.Clock, backend taskout.Backend, store taskout.TaskStore, userID string) *SessionService {
	return &SessionService{clock: clock, backend: backend, store: store, userID: userID}
}

// Create registers the task with the backend and remembers its id.
func (s *SessionService) Create(ctx context.Context, description, energy string, settings domain.Settings) (domain.StoredTask, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.StoredTask{}, fmt.Errorf("task description is required: %w", apperrors.ErrInvalidInput)
	}
	taskID, err := s.backend.CreateTask(ctx, domain.CreateRequest{
		UserID:      s.userID,
		Description: description,
		Energy:      energy,
		Settings:    settings,
	})
	if err != nil {
		return domain.StoredTask{}, err
	}
	task := domain.StoredTask{TaskID: taskID, Title: description, Energy: energy, CreatedAt: s.clock.Now()}
	if err := s.store.Save(ctx, task); err != nil {
		return domain.StoredTask{}, err
	}
	return task, nil
}

func (s *SessionService) Step(ctx context.Context, taskID string) (domain.Step, error) {
	if taskID == "" {
		return domain.Step{}, apperrors.ErrNoActiveTask
	}
	return s.backend.CurrentStep(ctx, taskID)
}

func (s *SessionService) Ack(ctx context.Context, taskID string) error {
	if taskID == "" {
		return apperrors.ErrNoActiveTask
	}
	return s.backend.MarkStepDone(ctx, taskID)
}

func (s *SessionService) Stored(ctx context.Context) (domain.StoredTask, error) {
	return s.store.Load(ctx)
}

func (s *SessionService) Forget(ctx context.Context) error {
	return s.store.Clear(ctx)
}
