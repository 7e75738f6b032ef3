package domain

import (
	"fmt"
	"time"

	apperrors "microwins/internal/platform/errors"
)

type State int

const (
	StateIdle State = iota
	// StateCreating covers the create request and the first step load.
	StateCreating
	StateActive
	// StateCompleted is transient; the controller returns to Idle right away.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

type Session struct {
	State            State
	TaskID           string
	TaskName         string
	StepNumber       int
	TotalSteps       int
	StepDescription  string
	EstimatedMinutes int
	Completed        bool
}

// Step is the backend's view of the current step.
type Step struct {
	Completed        bool
	Number           int
	Total            int
	Description      string
	TaskName         string
	EstimatedMinutes int
}

// Advance validates step against the session and returns the updated
// session. A step number lower than the one already shown is a protocol
// error; the session is left untouched.
func (s Session) Advance(step Step) (Session, error) {
	if step.Completed {
		next := s
		next.State = StateCompleted
		next.Completed = true
		return next, nil
	}
	if step.Total < 0 || step.Number < 0 || step.Number > step.Total {
		return s, fmt.Errorf("step %d of %d is out of range: %w", step.Number, step.Total, apperrors.ErrInvalidTransition)
	}
	if s.State == StateActive && step.Number < s.StepNumber {
		return s, fmt.Errorf("step went back from %d to %d: %w", s.StepNumber, step.Number, apperrors.ErrInvalidTransition)
	}
	if step.EstimatedMinutes < 0 {
		return s, fmt.Errorf("negative estimate: %w", apperrors.ErrInvalidTransition)
	}
	next := s
	next.State = StateActive
	next.StepNumber = step.Number
	next.TotalSteps = step.Total
	next.StepDescription = step.Description
	next.EstimatedMinutes = step.EstimatedMinutes
	next.Completed = false
	if step.TaskName != "" {
		next.TaskName = step.TaskName
	}
	return next, nil
}

// Settings is the preference snapshot sent with a new task.
type Settings struct {
	Granularity          string
	Neurodivergence      string
	BreakIntervalMinutes int
	FatigueTriggers      []string
	Tone                 []string
	Verbosity            int
}

type CreateRequest struct {
	UserID      string
	Description string
	Energy      string
	Settings    Settings
}

// StoredTask is what survives a restart.
type StoredTask struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	Energy    string    `json:"energy,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
