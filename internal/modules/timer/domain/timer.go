package domain

import "fmt"

// DefaultBreakSeconds is the break length when none is given.
const DefaultBreakSeconds = 300

// FocusTimer counts down the estimate of the current step. Reaching zero is
// a passive state; nothing fires.
type FocusTimer struct {
	remaining int
	limit     int
	running   bool
}

// Arm resets the countdown to limit seconds and starts it.
func (f *FocusTimer) Arm(limit int) {
	if limit < 0 {
		limit = 0
	}
	f.limit = limit
	f.remaining = limit
	f.running = true
}

func (f *FocusTimer) Tick() {
	if f.running && f.remaining > 0 {
		f.remaining--
	}
}

func (f *FocusTimer) Pause()  { f.running = false }
func (f *FocusTimer) Resume() { f.running = true }

// Stop clears the countdown, used when the task ends.
func (f *FocusTimer) Stop() {
	f.running = false
	f.remaining = 0
	f.limit = 0
}

func (f FocusTimer) Remaining() int { return f.remaining }
func (f FocusTimer) Limit() int     { return f.limit }
func (f FocusTimer) Running() bool  { return f.running }

type BreakPhase int

const (
	BreakIdle BreakPhase = iota
	BreakRunning
	BreakPaused
	BreakExpired
)

func (p BreakPhase) String() string {
	switch p {
	case BreakRunning:
		return "running"
	case BreakPaused:
		return "paused"
	case BreakExpired:
		return "expired"
	default:
		return "idle"
	}
}

// BreakTimer is an on-demand rest countdown. Expiry leaves a reminder pending
// until Acknowledge.
type BreakTimer struct {
	remaining int
	limit     int
	phase     BreakPhase
}

func NewBreakTimer() BreakTimer {
	return BreakTimer{remaining: DefaultBreakSeconds, limit: DefaultBreakSeconds}
}

func (b *BreakTimer) Start(limit int) {
	if limit <= 0 {
		limit = DefaultBreakSeconds
	}
	b.limit = limit
	b.remaining = limit
	b.phase = BreakRunning
}

// Tick reports true on the tick that expires the break.
func (b *BreakTimer) Tick() bool {
	if b.phase != BreakRunning || b.remaining == 0 {
		return false
	}
	b.remaining--
	if b.remaining == 0 {
		b.phase = BreakExpired
		return true
	}
	return false
}

func (b *BreakTimer) Pause() bool {
	if b.phase != BreakRunning {
		return false
	}
	b.phase = BreakPaused
	return true
}

func (b *BreakTimer) Resume() bool {
	if b.phase != BreakPaused {
		return false
	}
	b.phase = BreakRunning
	return true
}

// Acknowledge dismisses the reminder and returns to idle.
func (b *BreakTimer) Acknowledge() bool {
	if b.phase != BreakExpired {
		return false
	}
	b.phase = BreakIdle
	b.remaining = b.limit
	return true
}

// Cancel abandons a running or paused break.
func (b *BreakTimer) Cancel() bool {
	if b.phase != BreakRunning && b.phase != BreakPaused {
		return false
	}
	b.phase = BreakIdle
	b.remaining = b.limit
	return true
}

func (b BreakTimer) Remaining() int        { return b.remaining }
func (b BreakTimer) Limit() int            { return b.limit }
func (b BreakTimer) Phase() BreakPhase     { return b.phase }
func (b BreakTimer) ReminderPending() bool { return b.phase == BreakExpired }

// Clock renders seconds as MM:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
