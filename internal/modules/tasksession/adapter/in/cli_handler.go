package in

import (
	"context"
	"errors"

	taskdto "microwins/internal/modules/tasksession/dto"
	taskin "microwins/internal/modules/tasksession/port/in"
	apperrors "microwins/internal/platform/errors"
)

type CLIHandler struct {
	usecase taskin.Usecase
}

func NewCLIHandler(usecase taskin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, description, energy string) (taskdto.SessionOutput, error) {
	return h.usecase.CreateTask(ctx, taskdto.CreateInput{Description: description, Energy: energy})
}

// Step shows the current step, resuming the stored task in a fresh process.
func (h CLIHandler) Step(ctx context.Context) (taskdto.SessionOutput, error) {
	out, err := h.usecase.Resume(ctx)
	if errors.Is(err, apperrors.ErrTaskAlreadyActive) {
		return h.usecase.FetchCurrentStep(ctx)
	}
	return out, err
}

func (h CLIHandler) Done(ctx context.Context) (taskdto.SessionOutput, error) {
	if h.usecase.Current().State == "idle" {
		if _, err := h.usecase.Resume(ctx); err != nil {
			return taskdto.SessionOutput{}, err
		}
	}
	return h.usecase.MarkStepDone(ctx)
}

func (h CLIHandler) Abandon(ctx context.Context) error {
	return h.usecase.Abandon(ctx)
}
