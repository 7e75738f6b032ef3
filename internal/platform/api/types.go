package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID accepts both string and numeric identifiers from the backend.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*i = ID(n.String())
	return nil
}

type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type CreateTaskRequest struct {
	UserID               string   `json:"user_id"`
	Task                 string   `json:"task"`
	EnergyLevel          string   `json:"energy_level,omitempty"`
	Neurodivergence      string   `json:"neurodivergence"`
	StepGranularity      string   `json:"step_granularity"`
	BreakIntervalMinutes int      `json:"break_interval_minutes"`
	FatigueTriggers      []string `json:"fatigue_triggers"`
	AITone               []string `json:"ai_tone"`
	ResponseVerbosity    int      `json:"response_verbosity"`
}

type CreateTaskResponse struct {
	TaskID ID `json:"task_id"`
}

type StepResponse struct {
	Completed            bool   `json:"completed"`
	CurrentStepNumber    int    `json:"current_step_number"`
	TotalSteps           int    `json:"total_steps"`
	StepDescription      string `json:"step_description"`
	TaskName             string `json:"task_name"`
	EstimatedTimeMinutes int    `json:"estimated_time_minutes"`
}

type MarkDoneRequest struct {
	TaskID string `json:"task_id"`
}

// Profile is used for both reading and updating the remote profile. Zero
// values mean the field is absent.
type Profile struct {
	UserID               string   `json:"user_id,omitempty"`
	Exists               bool     `json:"exists,omitempty"`
	StepGranularity      string   `json:"step_granularity,omitempty"`
	FontPreference       string   `json:"font_preference,omitempty"`
	InputMode            string   `json:"input_mode,omitempty"`
	Neurodivergence      string   `json:"neurodivergence,omitempty"`
	BreakIntervalMinutes int      `json:"break_interval_minutes,omitempty"`
	AITone               []string `json:"ai_tone,omitempty"`
	ResponseVerbosity    int      `json:"response_verbosity,omitempty"`
	FatigueTriggers      []string `json:"fatigue_triggers,omitempty"`
}

type Badge struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	EarnedAt    string `json:"earned_at,omitempty"`
}

type Stats struct {
	UserID              string  `json:"user_id,omitempty"`
	TotalTasksCompleted int     `json:"total_tasks_completed"`
	TotalStepsCompleted int     `json:"total_steps_completed"`
	TotalTasksActive    int     `json:"total_tasks_active"`
	Streak              int     `json:"streak"`
	RewardPoints        int     `json:"reward_points"`
	LastCompletedDate   *string `json:"last_completed_date"`
	MotivationalMessage string  `json:"motivational_message"`
	Badges              []Badge `json:"badges"`
}

// errorPayload covers both `{"message": ...}` and `{"error": ...}` bodies.
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
