package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cucumber/godog"

	convout "microwins/internal/modules/conversation/adapter/out"
	convin "microwins/internal/modules/conversation/port/in"
	convservice "microwins/internal/modules/conversation/service"
	convusecase "microwins/internal/modules/conversation/usecase"
	prefout "microwins/internal/modules/preference/adapter/out"
	prefdto "microwins/internal/modules/preference/dto"
	prefin "microwins/internal/modules/preference/port/in"
	prefservice "microwins/internal/modules/preference/service"
	prefusecase "microwins/internal/modules/preference/usecase"
	taskoutadapter "microwins/internal/modules/tasksession/adapter/out"
	taskdto "microwins/internal/modules/tasksession/dto"
	taskin "microwins/internal/modules/tasksession/port/in"
	"microwins/internal/modules/tasksession/service"
	"microwins/internal/modules/tasksession/usecase"
	timerin "microwins/internal/modules/timer/port/in"
	timerservice "microwins/internal/modules/timer/service"
	timerusecase "microwins/internal/modules/timer/usecase"
	"microwins/internal/platform/api"
	"microwins/internal/platform/clock"
	apperrors "microwins/internal/platform/errors"
	"microwins/internal/platform/id"
	"microwins/internal/platform/logging"
)

type scriptedBackend struct {
	mu       sync.Mutex
	taskID   string
	step     api.StepResponse
	requests []api.CreateTaskRequest
}

func (b *scriptedBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/task/create", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"message":"bad json"}`, http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.requests = append(b.requests, req)
		taskID := b.taskID
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
	})
	mux.HandleFunc("/task/current-step", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		step := b.step
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(step)
	})
	return mux
}

type sessionScenario struct {
	t        *testing.T
	server   *httptest.Server
	backend  *scriptedBackend
	prefs    prefin.Usecase
	log      convin.Usecase
	timers   timerin.Usecase
	sessions taskin.Usecase
	closers  []func()
	lastOut  taskdto.SessionOutput
	lastErr  error
}

func (s *sessionScenario) setup() {
	dir := s.t.TempDir()
	s.backend = &scriptedBackend{}
	s.server = httptest.NewServer(s.backend.handler())
	client := api.NewClient(s.server.URL, 0)

	prefs := prefusecase.NewInteractor(
		prefservice.NewPreferenceService(prefout.NewYAMLCache(filepath.Join(dir, "preferences.yaml")), nil, nil),
		nil, "", logging.Discard(),
	)
	store, err := convout.NewSQLiteHistoryStore(filepath.Join(dir, "history.db"))
	if err != nil {
		s.t.Fatalf("open history: %v", err)
	}
	s.log = convusecase.NewInteractor(convservice.NewHistoryService(clock.SystemClock{}, id.UUID{}, store))
	s.timers = timerusecase.NewInteractor(timerservice.NewTimers())
	s.sessions = usecase.NewInteractor(
		service.NewSessionService(clock.SystemClock{}, taskoutadapter.NewAPIBackend(client), taskoutadapter.NewFileTaskStore(filepath.Join(dir, "current-task.json")), "guest"),
		taskoutadapter.NewPreferenceBridge(prefs),
		taskoutadapter.NewTranscriptBridge(s.log),
		taskoutadapter.NewFocusBridge(s.timers),
		logging.Discard(),
	)
	s.prefs = prefs
	s.closers = append(s.closers, s.server.Close, func() { _ = store.Close() })
}

func (s *sessionScenario) close() {
	for _, fn := range s.closers {
		fn()
	}
}

func (s *sessionScenario) myGranularityIs(granularity string) error {
	_, err := s.prefs.Update(context.Background(), prefdto.UpdateInput{Granularity: &granularity})
	return err
}

func (s *sessionScenario) backendWillCreate(taskID, description string, total, minutes int) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.taskID = taskID
	s.backend.step = api.StepResponse{CurrentStepNumber: 1, TotalSteps: total, StepDescription: description, EstimatedTimeMinutes: minutes}
	return nil
}

func (s *sessionScenario) iSubmit(description string) error {
	s.lastOut, s.lastErr = s.sessions.CreateTask(context.Background(), taskdto.CreateInput{Description: description})
	return nil
}

func (s *sessionScenario) iSubmitWithEnergy(description, energy string) error {
	s.lastOut, s.lastErr = s.sessions.CreateTask(context.Background(), taskdto.CreateInput{Description: description, Energy: energy})
	return nil
}

func (s *sessionScenario) backendReceivedGranularity(granularity string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if len(s.backend.requests) != 1 {
		return fmt.Errorf("expected one create request, got %d", len(s.backend.requests))
	}
	if got := s.backend.requests[0].StepGranularity; got != granularity {
		return fmt.Errorf("expected granularity %q, got %q", granularity, got)
	}
	return nil
}

func (s *sessionScenario) sessionAt(step, total int) error {
	if s.lastErr != nil {
		return s.lastErr
	}
	cur := s.sessions.Current()
	if cur.StepNumber != step || cur.TotalSteps != total || cur.Completed {
		return fmt.Errorf("unexpected session %+v", cur)
	}
	return nil
}

func (s *sessionScenario) focusShows(seconds int) error {
	if got := s.timers.Snapshot().FocusRemaining; got != seconds {
		return fmt.Errorf("expected focus %d, got %d", seconds, got)
	}
	return nil
}

func (s *sessionScenario) conversationEndsWithStep(description string) error {
	entries := s.log.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Step != nil {
			if entries[i].Step.Description != description {
				return fmt.Errorf("last step card is %q", entries[i].Step.Description)
			}
			return nil
		}
	}
	return fmt.Errorf("no step card in conversation")
}

func (s *sessionScenario) rejectedAsInvalid() error {
	if !errors.Is(s.lastErr, apperrors.ErrInvalidInput) {
		return fmt.Errorf("expected invalid input, got %v", s.lastErr)
	}
	return nil
}

func (s *sessionScenario) noCreateRequest() error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if len(s.backend.requests) != 0 {
		return fmt.Errorf("expected no create request, got %d", len(s.backend.requests))
	}
	return nil
}

func TestTaskSessionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			s := &sessionScenario{t: t}
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				s.setup()
				return ctx, nil
			})
			sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
				s.close()
				return ctx, nil
			})
			sc.Step(`^my step granularity preference is "([^"]*)"$`, s.myGranularityIs)
			sc.Step(`^the backend will create task "([^"]*)" whose first step is "([^"]*)" of (\d+) taking (\d+) minutes$`, s.backendWillCreate)
			sc.Step(`^I submit the task "([^"]*)"$`, s.iSubmit)
			sc.Step(`^I submit the task "([^"]*)" with "([^"]*)" energy$`, s.iSubmitWithEnergy)
			sc.Step(`^the backend received granularity "([^"]*)"$`, s.backendReceivedGranularity)
			sc.Step(`^the session is at step (\d+) of (\d+) and not completed$`, s.sessionAt)
			sc.Step(`^the focus timer shows (\d+) seconds$`, s.focusShows)
			sc.Step(`^the conversation ends with the step card "([^"]*)"$`, s.conversationEndsWithStep)
			sc.Step(`^the request is rejected as invalid$`, s.rejectedAsInvalid)
			sc.Step(`^the backend received no create request$`, s.noCreateRequest)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/task_session.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
