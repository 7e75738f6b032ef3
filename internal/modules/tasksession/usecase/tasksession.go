package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"microwins/internal/modules/tasksession/domain"
	taskdto "microwins/internal/modules/tasksession/dto"
	taskin "microwins/internal/modules/tasksession/port/in"
	taskout "microwins/internal/modules/tasksession/port/out"
	"microwins/internal/modules/tasksession/service"
	apperrors "microwins/internal/platform/errors"
)

const (
	msgCompleted = "All steps are done! You can start a new task anytime."
	msgAbandoned = "Okay, I've set that task aside. What would you like to work on next?"
)

type Interactor struct {
	svc        *service.SessionService
	prefs      taskout.Preferences
	transcript taskout.Transcript
	focus      taskout.FocusTimer
	logger     *log.Logger

	mu      sync.Mutex
	busy    bool
	session domain.Session
}

func NewInteractor(svc *service.SessionService, prefs taskout.Preferences, transcript taskout.Transcript, focus taskout.FocusTimer, logger *log.Logger) taskin.Usecase {
	return &Interactor{svc: svc, prefs: prefs, transcript: transcript, focus: focus, logger: logger}
}

func (i *Interactor) CreateTask(ctx context.Context, input taskdto.CreateInput) (taskdto.SessionOutput, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return taskdto.SessionOutput{}, fmt.Errorf("task description is required: %w", apperrors.ErrInvalidInput)
	}
	if err := i.acquire(); err != nil {
		return i.Current(), err
	}
	defer i.release()

	if state := i.snapshot().State; state != domain.StateIdle {
		return i.Current(), fmt.Errorf("task is %s: %w", state, apperrors.ErrTaskAlreadyActive)
	}
	settings, err := i.prefs.Snapshot(ctx, input.Energy)
	if err != nil {
		return i.Current(), err
	}

	i.transcript.User(description)
	i.set(domain.Session{State: domain.StateCreating})
	task, err := i.svc.Create(ctx, description, input.Energy, settings)
	if err != nil {
		i.set(domain.Session{})
		i.transcript.Assistant("Sorry, I couldn't create that task. " + reason(err))
		return i.Current(), err
	}
	i.logger.Info("task created", "task", task.TaskID, "granularity", settings.Granularity)
	i.set(domain.Session{State: domain.StateCreating, TaskID: task.TaskID, TaskName: task.Title})
	i.transcript.Assistant(fmt.Sprintf("Great! I've broken down %q into steps. Let's start!", description))

	mode := input.Energy
	if mode == "" {
		mode = settings.Granularity
	}
	if err := i.transcript.SaveHistory(ctx, description, mode); err != nil {
		i.logger.Warn("history not saved", "task", task.TaskID, "error", err)
	}

	out, err := i.fetch(ctx)
	if err != nil && i.snapshot().State == domain.StateCreating {
		// The id stays stored so Resume can pick the task up later.
		i.set(domain.Session{})
	}
	return out, err
}

func (i *Interactor) FetchCurrentStep(ctx context.Context) (taskdto.SessionOutput, error) {
	if err := i.acquire(); err != nil {
		return i.Current(), err
	}
	defer i.release()

	switch i.snapshot().State {
	case domain.StateCreating, domain.StateActive:
		return i.fetch(ctx)
	default:
		return i.Current(), apperrors.ErrNoActiveTask
	}
}

func (i *Interactor) MarkStepDone(ctx context.Context) (taskdto.SessionOutput, error) {
	if err := i.acquire(); err != nil {
		return i.Current(), err
	}
	defer i.release()

	current := i.snapshot()
	if current.State != domain.StateActive {
		if current.State == domain.StateIdle {
			return i.Current(), apperrors.ErrNoActiveTask
		}
		return i.Current(), fmt.Errorf("mark done while %s: %w", current.State, apperrors.ErrInvalidTransition)
	}
	if err := i.svc.Ack(ctx, current.TaskID); err != nil {
		i.transcript.Assistant("Failed to mark step as done. " + reason(err))
		return i.Current(), err
	}
	i.logger.Debug("step done", "task", current.TaskID, "step", current.StepNumber)
	return i.fetch(ctx)
}

func (i *Interactor) Resume(ctx context.Context) (taskdto.SessionOutput, error) {
	if err := i.acquire(); err != nil {
		return i.Current(), err
	}
	defer i.release()

	if state := i.snapshot().State; state != domain.StateIdle {
		return i.Current(), fmt.Errorf("task is %s: %w", state, apperrors.ErrTaskAlreadyActive)
	}
	stored, err := i.svc.Stored(ctx)
	if err != nil {
		return i.Current(), err
	}
	i.set(domain.Session{State: domain.StateCreating, TaskID: stored.TaskID, TaskName: stored.Title})
	out, err := i.fetch(ctx)
	if err != nil && i.snapshot().State == domain.StateCreating {
		i.set(domain.Session{})
	}
	return out, err
}

func (i *Interactor) Abandon(ctx context.Context) error {
	if err := i.acquire(); err != nil {
		return err
	}
	defer i.release()

	if err := i.svc.Forget(ctx); err != nil {
		return err
	}
	had := i.snapshot().State != domain.StateIdle
	i.set(domain.Session{})
	i.focus.Stop()
	if had {
		i.transcript.Assistant(msgAbandoned)
	}
	return nil
}

func (i *Interactor) Current() taskdto.SessionOutput {
	return toOutput(i.snapshot())
}

func (i *Interactor) HasStoredTask(ctx context.Context) bool {
	_, err := i.svc.Stored(ctx)
	return err == nil
}

// fetch loads the current step. The caller holds the in-flight slot.
func (i *Interactor) fetch(ctx context.Context) (taskdto.SessionOutput, error) {
	current := i.snapshot()
	step, err := i.svc.Step(ctx, current.TaskID)
	if err != nil {
		i.transcript.Assistant("Failed to load step. " + reason(err))
		return toOutput(current), err
	}
	next, err := current.Advance(step)
	if err != nil {
		i.logger.Warn("rejected step from backend", "task", current.TaskID, "error", err)
		i.transcript.Assistant("Failed to load step. " + reason(err))
		return toOutput(current), err
	}

	if next.State == domain.StateCompleted {
		if err := i.svc.Forget(ctx); err != nil {
			i.logger.Warn("stored task not cleared", "task", current.TaskID, "error", err)
		}
		i.focus.Stop()
		i.set(domain.Session{})
		i.transcript.Assistant(msgCompleted)
		i.logger.Info("task completed", "task", current.TaskID)
		return toOutput(next), nil
	}

	i.set(next)
	i.transcript.Step(next)
	i.transcript.Assistant(fmt.Sprintf(
		"Take your time - Estimated: %d min\nFocus on this one step: %s\nComplete it at your own pace before moving forward.",
		next.EstimatedMinutes, next.StepDescription,
	))
	i.focus.Arm(next.EstimatedMinutes * 60)
	return toOutput(next), nil
}

func (i *Interactor) acquire() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.busy {
		return apperrors.ErrRequestInFlight
	}
	i.busy = true
	return nil
}

func (i *Interactor) release() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.busy = false
}

func (i *Interactor) snapshot() domain.Session {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.session
}

func (i *Interactor) set(session domain.Session) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.session = session
}

// reason is the user-facing text of err. Backend errors already carry the
// server's message.
func reason(err error) string {
	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}
	return err.Error()
}

func toOutput(s domain.Session) taskdto.SessionOutput {
	out := taskdto.SessionOutput{
		State:            s.State.String(),
		TaskID:           s.TaskID,
		TaskName:         s.TaskName,
		StepNumber:       s.StepNumber,
		TotalSteps:       s.TotalSteps,
		StepDescription:  s.StepDescription,
		EstimatedMinutes: s.EstimatedMinutes,
		Completed:        s.Completed,
	}
	if s.TotalSteps > 0 {
		out.ProgressPercent = (s.StepNumber*100 + s.TotalSteps/2) / s.TotalSteps
	}
	if s.Completed {
		out.ProgressPercent = 100
	}
	return out
}
