package out

import (
	"context"

	"microwins/internal/modules/tasksession/domain"
	taskout "microwins/internal/modules/tasksession/port/out"
	"microwins/internal/platform/api"
)

type TaskClient interface {
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (api.CreateTaskResponse, error)
	CurrentStep(ctx context.Context, taskID string) (api.StepResponse, error)
	MarkStepDone(ctx context.Context, taskID string) error
}

type APIBackend struct {
	client TaskClient
}

func NewAPIBackend(client TaskClient) taskout.Backend {
	return &APIBackend{client: client}
}

func (b *APIBackend) CreateTask(ctx context.Context, req domain.CreateRequest) (string, error) {
	resp, err := b.client.CreateTask(ctx, api.CreateTaskRequest{
		UserID:               req.UserID,
		Task:                 req.Description,
		EnergyLevel:          req.Energy,
		Neurodivergence:      req.Settings.Neurodivergence,
		StepGranularity:      req.Settings.Granularity,
		BreakIntervalMinutes: req.Settings.BreakIntervalMinutes,
		FatigueTriggers:      req.Settings.FatigueTriggers,
		AITone:               req.Settings.Tone,
		ResponseVerbosity:    req.Settings.Verbosity,
	})
	if err != nil {
		return "", err
	}
	return string(resp.TaskID), nil
}

func (b *APIBackend) CurrentStep(ctx context.Context, taskID string) (domain.Step, error) {
	resp, err := b.client.CurrentStep(ctx, taskID)
	if err != nil {
		return domain.Step{}, err
	}
	return domain.Step{
		Completed:        resp.Completed,
		Number:           resp.CurrentStepNumber,
		Total:            resp.TotalSteps,
		Description:      resp.StepDescription,
		TaskName:         resp.TaskName,
		EstimatedMinutes: resp.EstimatedTimeMinutes,
	}, nil
}

func (b *APIBackend) MarkStepDone(ctx context.Context, taskID string) error {
	return b.client.MarkStepDone(ctx, taskID)
}
