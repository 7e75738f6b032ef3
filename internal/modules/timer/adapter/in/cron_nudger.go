package in

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	timerdto "microwins/internal/modules/timer/dto"
	timerin "microwins/internal/modules/timer/port/in"
)

// Nudger suggests a break every interval while the user is focusing.
type Nudger struct {
	mu      sync.Mutex
	usecase timerin.Usecase
	cron    *cron.Cron
	notify  func(timerdto.TimerOutput)
}

func NewNudger(usecase timerin.Usecase, notify func(timerdto.TimerOutput)) *Nudger {
	return &Nudger{usecase: usecase, cron: cron.New(), notify: notify}
}

// Start schedules the nudge. Non-positive intervals disable it.
func (n *Nudger) Start(intervalMinutes int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.start(intervalMinutes)
}

func (n *Nudger) start(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return nil
	}
	if _, err := n.cron.AddFunc(fmt.Sprintf("@every %dm", intervalMinutes), n.Nudge); err != nil {
		return fmt.Errorf("schedule break nudge: %w", err)
	}
	n.cron.Start()
	return nil
}

// Reschedule replaces the running schedule, e.g. after a preference edit.
func (n *Nudger) Reschedule(intervalMinutes int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	<-n.cron.Stop().Done()
	n.cron = cron.New()
	return n.start(intervalMinutes)
}

// Nudge notifies only when focus is running and no break is under way.
func (n *Nudger) Nudge() {
	out := n.usecase.Snapshot()
	if !out.FocusRunning || out.BreakPhase != "idle" {
		return
	}
	if n.notify != nil {
		n.notify(out)
	}
}

func (n *Nudger) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	<-n.cron.Stop().Done()
}
