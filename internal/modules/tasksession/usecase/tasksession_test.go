package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskoutadapter "microwins/internal/modules/tasksession/adapter/out"
	"microwins/internal/modules/tasksession/domain"
	taskdto "microwins/internal/modules/tasksession/dto"
	taskin "microwins/internal/modules/tasksession/port/in"
	taskout "microwins/internal/modules/tasksession/port/out"
	"microwins/internal/modules/tasksession/service"
	"microwins/internal/modules/tasksession/usecase"
	"microwins/internal/platform/api"
	apperrors "microwins/internal/platform/errors"
	"microwins/internal/platform/logging"
)

type fakeClock struct{}

func (fakeClock) Now() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

type fakeBackend struct {
	mu          sync.Mutex
	createCalls int
	requests    []domain.CreateRequest
	taskID      string
	createErr   error
	steps       []domain.Step
	cursor      int
	stepErr     error
	markCalls   int
	markErr     error
	gate        chan struct{}
	entered     chan struct{}
}

func (f *fakeBackend) CreateTask(_ context.Context, req domain.CreateRequest) (string, error) {
	f.mu.Lock()
	f.createCalls++
	f.requests = append(f.requests, req)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.taskID, nil
}

func (f *fakeBackend) CurrentStep(context.Context, string) (domain.Step, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stepErr != nil {
		return domain.Step{}, f.stepErr
	}
	if f.cursor >= len(f.steps) {
		return domain.Step{Completed: true}, nil
	}
	return f.steps[f.cursor], nil
}

func (f *fakeBackend) MarkStepDone(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	f.cursor++
	return nil
}

type fakePrefs struct{}

func (fakePrefs) Snapshot(_ context.Context, energy string) (domain.Settings, error) {
	settings := domain.Settings{Granularity: "normal", Neurodivergence: "ADHD", BreakIntervalMinutes: 25, Tone: []string{"calm"}, Verbosity: 3}
	switch energy {
	case "low":
		settings.Granularity = "micro"
	case "high":
		settings.Granularity = "macro"
	case "", "medium":
	default:
		return domain.Settings{}, apperrors.ErrInvalidInput
	}
	return settings, nil
}

type fakeTranscript struct {
	mu        sync.Mutex
	user      []string
	assistant []string
	steps     []domain.Session
	history   []string
}

func (f *fakeTranscript) User(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = append(f.user, text)
}

func (f *fakeTranscript) Assistant(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assistant = append(f.assistant, text)
}

func (f *fakeTranscript) Step(s domain.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, s)
}

func (f *fakeTranscript) SaveHistory(_ context.Context, title, mode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, title+"|"+mode)
	return nil
}

func (f *fakeTranscript) lastAssistant() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.assistant) == 0 {
		return ""
	}
	return f.assistant[len(f.assistant)-1]
}

type fakeFocus struct {
	mu      sync.Mutex
	armed   []int
	stopped int
}

func (f *fakeFocus) Arm(seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = append(f.armed, seconds)
}

func (f *fakeFocus) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

type fixture struct {
	backend    *fakeBackend
	store      taskout.TaskStore
	transcript *fakeTranscript
	focus      *fakeFocus
	uc         taskin.Usecase
}

func newFixture(t *testing.T, backend *fakeBackend) fixture {
	t.Helper()
	store := taskoutadapter.NewFileTaskStore(filepath.Join(t.TempDir(), "current-task.json"))
	transcript := &fakeTranscript{}
	focus := &fakeFocus{}
	svc := service.NewSessionService(fakeClock{}, backend, store, "u1")
	uc := usecase.NewInteractor(svc, fakePrefs{}, transcript, focus, logging.Discard())
	return fixture{backend: backend, store: store, transcript: transcript, focus: focus, uc: uc}
}

func reportSteps() []domain.Step {
	return []domain.Step{
		{Number: 1, Total: 4, Description: "Open a blank document", EstimatedMinutes: 10, TaskName: "Write a report"},
		{Number: 2, Total: 4, Description: "Write the headings", EstimatedMinutes: 5, TaskName: "Write a report"},
		{Number: 3, Total: 4, Description: "Fill one section", EstimatedMinutes: 15, TaskName: "Write a report"},
		{Number: 4, Total: 4, Description: "Read it once", EstimatedMinutes: 5, TaskName: "Write a report"},
	}
}

func TestCreateTaskLoadsFirstStepAndArmsFocus(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1", steps: reportSteps()})

	out, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	require.NoError(t, err)
	assert.Equal(t, "active", out.State)
	assert.Equal(t, 1, out.StepNumber)
	assert.Equal(t, 4, out.TotalSteps)
	assert.False(t, out.Completed)
	assert.Equal(t, []int{600}, f.focus.armed)

	require.Len(t, f.backend.requests, 1)
	assert.Equal(t, "normal", f.backend.requests[0].Settings.Granularity)
	assert.Equal(t, "u1", f.backend.requests[0].UserID)
	assert.Equal(t, []string{"Write a report"}, f.transcript.user)
	assert.Contains(t, f.transcript.assistant[0], `"Write a report"`)
	assert.Len(t, f.transcript.steps, 1)
	assert.Equal(t, []string{"Write a report|normal"}, f.transcript.history)

	stored, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T1", stored.TaskID)
}

func TestCreateTaskMapsEnergyToGranularity(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1", steps: reportSteps()})

	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Tidy desk", Energy: "low"})
	require.NoError(t, err)
	assert.Equal(t, "micro", f.backend.requests[0].Settings.Granularity)
	assert.Equal(t, "low", f.backend.requests[0].Energy)
	assert.Equal(t, []string{"Tidy desk|low"}, f.transcript.history)
}

func TestCreateTaskRejectsBlankWithoutBackend(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1"})

	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "   "})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Zero(t, f.backend.createCalls)
	assert.Empty(t, f.transcript.user)
	assert.Equal(t, "idle", f.uc.Current().State)
}

func TestConcurrentCreateSendsOneRequest(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{taskID: "T1", steps: reportSteps(), gate: make(chan struct{}), entered: make(chan struct{})}
	f := newFixture(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
		done <- err
	}()
	<-backend.entered
	assert.Equal(t, "creating", f.uc.Current().State)

	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	assert.True(t, errors.Is(err, apperrors.ErrRequestInFlight))
	_, err = f.uc.MarkStepDone(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrRequestInFlight))

	close(backend.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, backend.createCalls)
	assert.Equal(t, "active", f.uc.Current().State)
}

func TestCreateTaskFailureStaysIdle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{createErr: &api.Error{Status: 400, Message: "Task description is required"}})

	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	require.Error(t, err)
	assert.Equal(t, "idle", f.uc.Current().State)
	assert.Equal(t, "Sorry, I couldn't create that task. Task description is required", f.transcript.lastAssistant())
	assert.False(t, f.uc.HasStoredTask(context.Background()))
	assert.Empty(t, f.focus.armed)
}

func TestCreateTaskFailureWhileCreatingRollsBack(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{createErr: errors.New("HTTP error 503"), gate: make(chan struct{}), entered: make(chan struct{})}
	f := newFixture(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
		done <- err
	}()
	<-backend.entered
	assert.Equal(t, "creating", f.uc.Current().State)

	close(backend.gate)
	require.Error(t, <-done)
	assert.Equal(t, "idle", f.uc.Current().State)
}

func TestCreateTaskBadEnergyReturnsCurrentSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1", steps: reportSteps()})

	out, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report", Energy: "sleepy"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, "idle", out.State)
	assert.Zero(t, f.backend.createCalls)
}

func TestCreateWithFailedFirstFetchCanResume(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{taskID: "T1", steps: reportSteps(), stepErr: errors.New("HTTP error 503")}
	f := newFixture(t, backend)

	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	require.Error(t, err)
	assert.Equal(t, "idle", f.uc.Current().State)
	assert.Equal(t, "Failed to load step. HTTP error 503", f.transcript.lastAssistant())
	assert.True(t, f.uc.HasStoredTask(context.Background()))

	backend.mu.Lock()
	backend.stepErr = nil
	backend.mu.Unlock()
	out, err := f.uc.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "active", out.State)
	assert.Equal(t, "Write a report", out.TaskName)
}

func TestMarkStepDoneAdvancesToCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1", steps: reportSteps()})
	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	require.NoError(t, err)

	prev := 1
	for range 3 {
		out, err := f.uc.MarkStepDone(context.Background())
		require.NoError(t, err)
		assert.Equal(t, prev+1, out.StepNumber)
		prev = out.StepNumber
	}
	assert.Equal(t, []int{600, 300, 900, 300}, f.focus.armed)

	out, err := f.uc.MarkStepDone(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, 4, out.StepNumber)
	assert.Equal(t, 100, out.ProgressPercent)
	assert.Equal(t, "idle", f.uc.Current().State)
	assert.Equal(t, 1, f.focus.stopped)
	assert.Equal(t, "All steps are done! You can start a new task anytime.", f.transcript.lastAssistant())
	assert.False(t, f.uc.HasStoredTask(context.Background()))

	_, err = f.uc.MarkStepDone(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNoActiveTask))
}

func TestRegressedStepIsRejected(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{taskID: "T1", steps: []domain.Step{
		{Number: 2, Total: 4, Description: "b", EstimatedMinutes: 5},
		{Number: 1, Total: 4, Description: "a", EstimatedMinutes: 5},
	}}
	f := newFixture(t, backend)
	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "x"})
	require.NoError(t, err)

	out, err := f.uc.MarkStepDone(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, 2, out.StepNumber)
	assert.Equal(t, 2, f.uc.Current().StepNumber)
	assert.Equal(t, []int{300}, f.focus.armed)
}

func TestMarkDoneFailureKeepsStep(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{taskID: "T1", steps: reportSteps()}
	f := newFixture(t, backend)
	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	require.NoError(t, err)

	backend.mu.Lock()
	backend.markErr = &api.Error{Status: 404, Message: "Task not found"}
	backend.mu.Unlock()
	out, err := f.uc.MarkStepDone(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, out.StepNumber)
	assert.Equal(t, "active", out.State)
	assert.Equal(t, "Failed to mark step as done. Task not found", f.transcript.lastAssistant())
}

func TestSecondCreateWhileActiveIsRefused(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1", steps: reportSteps()})
	_, err := f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Write a report"})
	require.NoError(t, err)

	_, err = f.uc.CreateTask(context.Background(), taskdto.CreateInput{Description: "Another"})
	assert.True(t, errors.Is(err, apperrors.ErrTaskAlreadyActive))
	assert.Equal(t, 1, f.backend.createCalls)
}

func TestResumeAndAbandon(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{taskID: "T1", steps: reportSteps()})

	_, err := f.uc.Resume(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNoActiveTask))

	require.NoError(t, f.store.Save(context.Background(), domain.StoredTask{TaskID: "T9", Title: "Old task"}))
	out, err := f.uc.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T9", out.TaskID)
	assert.Equal(t, "active", out.State)

	require.NoError(t, f.uc.Abandon(context.Background()))
	assert.Equal(t, "idle", f.uc.Current().State)
	assert.False(t, f.uc.HasStoredTask(context.Background()))
	assert.Equal(t, 1, f.focus.stopped)
}

func TestFetchWithoutTask(t *testing.T) {
	t.Parallel()
	f := newFixture(t, &fakeBackend{})
	_, err := f.uc.FetchCurrentStep(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNoActiveTask))
}
