// Package devserver is a local stand-in for the task breakdown backend. It
// serves the same REST contract the client speaks, with a fixed breakdown
// template instead of a language model.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"microwins/internal/platform/api"
	"microwins/internal/platform/clock"
	apperrors "microwins/internal/platform/errors"
	"microwins/internal/platform/id"
)

type Server struct {
	store  *Store
	clock  clock.Clock
	ids    id.Generator
	logger *log.Logger
}

func New(store *Store, clk clock.Clock, ids id.Generator, logger *log.Logger) *Server {
	return &Server{store: store, clock: clk, ids: ids, logger: logger}
}

// Handler mounts the API under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/task/create", s.handleCreateTask)
		r.Get("/task/current-step", s.handleCurrentStep)
		r.Post("/task/mark-done", s.handleMarkDone)
		r.Get("/user/profile", s.handleGetProfile)
		r.Put("/user/profile/update", s.handleUpdateProfile)
		r.Get("/user/stats", s.handleStats)
	})
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "healthy", Service: "microwins-dev"})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	title := strings.TrimSpace(req.Task)
	if title == "" {
		writeError(w, http.StatusBadRequest, "task is required")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	task := Task{
		ID:          s.ids.New(),
		UserID:      req.UserID,
		Title:       title,
		Granularity: req.StepGranularity,
		Steps:       Breakdown(title, req.StepGranularity),
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("task created", "task", task.ID, "user", task.UserID, "steps", len(task.Steps))
	writeJSON(w, http.StatusCreated, map[string]string{"task_id": task.ID})
}

func (s *Server) handleCurrentStep(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	task, err := s.store.Task(r.Context(), taskID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse(task))
}

func (s *Server) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	var req api.MarkDoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	task, err := s.store.MarkDone(r.Context(), req.TaskID, s.clock.Now())
	if err != nil {
		s.fail(w, err)
		return
	}
	if task.Completed {
		s.logger.Info("task completed", "task", task.ID, "user", task.UserID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task_id":      task.ID,
		"current_step": min(task.Index+1, len(task.Steps)),
		"completed":    task.Completed,
		"message":      "Step marked as completed!",
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	profile, _, err := s.store.Profile(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileBody(profile))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.Profile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	profile, err := s.store.UpdateProfile(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileBody(profile))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	stats, err := s.store.Stats(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func stepResponse(task Task) api.StepResponse {
	resp := api.StepResponse{
		Completed:  task.Completed,
		TotalSteps: len(task.Steps),
		TaskName:   task.Title,
	}
	if task.Completed || task.Index >= len(task.Steps) {
		resp.Completed = true
		resp.CurrentStepNumber = len(task.Steps)
		return resp
	}
	step := task.Steps[task.Index]
	resp.CurrentStepNumber = task.Index + 1
	resp.StepDescription = step.Description
	resp.EstimatedTimeMinutes = step.Minutes
	return resp
}

// profileBody always carries the exists flag, which api.Profile omits when
// false.
func profileBody(profile api.Profile) map[string]any {
	body := map[string]any{"user_id": profile.UserID, "exists": profile.Exists}
	raw, err := json.Marshal(profile)
	if err != nil {
		return body
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return body
	}
	for k, v := range fields {
		body[k] = v
	}
	body["exists"] = profile.Exists
	return body
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Task is already completed")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError emits both message and error so either client convention works.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg, "error": msg})
}
