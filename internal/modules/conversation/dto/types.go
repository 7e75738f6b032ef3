package dto

import "time"

type StepCard struct {
	TaskName         string
	StepNumber       int
	TotalSteps       int
	Description      string
	EstimatedMinutes int
}

type EntryOutput struct {
	Kind      string
	Text      string
	Step      *StepCard
	CreatedAt time.Time
}

type HistoryOutput struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Mode      string
}
