package service

import (
	"sync"

	"microwins/internal/modules/timer/domain"
)

// Timers owns the focus and break countdowns. Starting a break pauses a
// running focus countdown; acknowledging the break resumes it only if the
// break was what paused it.
type Timers struct {
	mu            sync.Mutex
	focus         domain.FocusTimer
	rest          domain.BreakTimer
	pausedByBreak bool
}

type State struct {
	Focus          domain.FocusTimer
	Break          domain.BreakTimer
	PausedByBreak  bool
	BreakJustEnded bool
}

func NewTimers() *Timers {
	return &Timers{rest: domain.NewBreakTimer()}
}

func (t *Timers) ArmFocus(limit int) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focus.Arm(limit)
	// A step loaded mid-break keeps waiting for the break to finish.
	if t.rest.Phase() == domain.BreakRunning || t.rest.Phase() == domain.BreakPaused {
		t.focus.Pause()
		t.pausedByBreak = true
	} else {
		t.pausedByBreak = false
	}
	return t.state(false)
}

func (t *Timers) StopFocus() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focus.Stop()
	t.pausedByBreak = false
	return t.state(false)
}

func (t *Timers) PauseFocus() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focus.Pause()
	t.pausedByBreak = false
	return t.state(false)
}

func (t *Timers) ResumeFocus() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.focus.Limit() > 0 {
		t.focus.Resume()
	}
	t.pausedByBreak = false
	return t.state(false)
}

func (t *Timers) StartBreak(limit int) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rest.Start(limit)
	if t.focus.Running() {
		t.focus.Pause()
		t.pausedByBreak = true
	}
	return t.state(false)
}

func (t *Timers) PauseBreak() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rest.Pause()
	return t.state(false)
}

func (t *Timers) ResumeBreak() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rest.Resume()
	return t.state(false)
}

func (t *Timers) AcknowledgeBreak() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rest.Acknowledge() {
		t.resumeAfterBreak()
	}
	return t.state(false)
}

func (t *Timers) CancelBreak() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rest.Cancel() {
		t.resumeAfterBreak()
	}
	return t.state(false)
}

// Tick advances both countdowns by one second.
func (t *Timers) Tick() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focus.Tick()
	expired := t.rest.Tick()
	return t.state(expired)
}

func (t *Timers) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state(false)
}

func (t *Timers) resumeAfterBreak() {
	if t.pausedByBreak {
		t.focus.Resume()
		t.pausedByBreak = false
	}
}

func (t *Timers) state(expired bool) State {
	return State{Focus: t.focus, Break: t.rest, PausedByBreak: t.pausedByBreak, BreakJustEnded: expired}
}
