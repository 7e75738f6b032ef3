package domain

import (
	"time"
)

const (
	Greeting     = "Hi! I'm here to help you break down tasks into manageable steps. What would you like to accomplish today?"
	WelcomeBack  = "Welcome back! You have an active task. Would you like to continue or start a new one?"
	HistoryLimit = 20
)

type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindStep      Kind = "step"
)

// StepCard is the rendered view of one task step.
type StepCard struct {
	TaskName         string
	StepNumber       int
	TotalSteps       int
	Description      string
	EstimatedMinutes int
}

type Entry struct {
	Kind      Kind
	Text      string
	Step      *StepCard
	CreatedAt time.Time
}

// Log is the in-memory transcript of the current session. It only grows
// until Reset.
type Log struct {
	entries []Entry
}

func (l *Log) Append(entry Entry) {
	l.entries = append(l.entries, entry)
}

// Reset leaves only the seed greeting.
func (l *Log) Reset(greeting Entry) {
	l.entries = []Entry{greeting}
}

func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int { return len(l.entries) }

type HistoryRecord struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Mode      string
}
