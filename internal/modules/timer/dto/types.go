package dto

type TimerOutput struct {
	FocusRemaining  int
	FocusLimit      int
	FocusRunning    bool
	FocusClock      string
	BreakRemaining  int
	BreakLimit      int
	BreakPhase      string
	BreakClock      string
	ReminderPending bool
	// BreakExpired is set only on the tick that ended the break.
	BreakExpired bool
}
