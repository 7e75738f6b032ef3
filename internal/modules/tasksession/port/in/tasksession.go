package in

import (
	"context"

	"microwins/internal/modules/tasksession/dto"
)

// Usecase drives one task at a time. Any call made while another is waiting
// on the backend returns apperrors.ErrRequestInFlight without side effects.
type Usecase interface {
	CreateTask(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error)
	FetchCurrentStep(ctx context.Context) (dto.SessionOutput, error)
	MarkStepDone(ctx context.Context) (dto.SessionOutput, error)
	Resume(ctx context.Context) (dto.SessionOutput, error)
	Abandon(ctx context.Context) error
	Current() dto.SessionOutput
	HasStoredTask(ctx context.Context) bool
}
