package usecase

import (
	"microwins/internal/modules/timer/domain"
	timerdto "microwins/internal/modules/timer/dto"
	timerin "microwins/internal/modules/timer/port/in"
	"microwins/internal/modules/timer/service"
)

type Interactor struct {
	timers *service.Timers
}

func NewInteractor(timers *service.Timers) timerin.Usecase {
	return &Interactor{timers: timers}
}

func (i *Interactor) ArmFocus(limitSeconds int) timerdto.TimerOutput {
	return toOutput(i.timers.ArmFocus(limitSeconds))
}

func (i *Interactor) StopFocus() timerdto.TimerOutput   { return toOutput(i.timers.StopFocus()) }
func (i *Interactor) PauseFocus() timerdto.TimerOutput  { return toOutput(i.timers.PauseFocus()) }
func (i *Interactor) ResumeFocus() timerdto.TimerOutput { return toOutput(i.timers.ResumeFocus()) }

func (i *Interactor) StartBreak(limitSeconds int) timerdto.TimerOutput {
	return toOutput(i.timers.StartBreak(limitSeconds))
}

func (i *Interactor) PauseBreak() timerdto.TimerOutput       { return toOutput(i.timers.PauseBreak()) }
func (i *Interactor) ResumeBreak() timerdto.TimerOutput      { return toOutput(i.timers.ResumeBreak()) }
func (i *Interactor) AcknowledgeBreak() timerdto.TimerOutput { return toOutput(i.timers.AcknowledgeBreak()) }
func (i *Interactor) CancelBreak() timerdto.TimerOutput      { return toOutput(i.timers.CancelBreak()) }
func (i *Interactor) Tick() timerdto.TimerOutput             { return toOutput(i.timers.Tick()) }
func (i *Interactor) Snapshot() timerdto.TimerOutput         { return toOutput(i.timers.Snapshot()) }

func toOutput(st service.State) timerdto.TimerOutput {
	return timerdto.TimerOutput{
		FocusRemaining:  st.Focus.Remaining(),
		FocusLimit:      st.Focus.Limit(),
		FocusRunning:    st.Focus.Running(),
		FocusClock:      domain.Clock(st.Focus.Remaining()),
		BreakRemaining:  st.Break.Remaining(),
		BreakLimit:      st.Break.Limit(),
		BreakPhase:      st.Break.Phase().String(),
		BreakClock:      domain.Clock(st.Break.Remaining()),
		ReminderPending: st.Break.ReminderPending(),
		BreakExpired:    st.BreakJustEnded,
	}
}
