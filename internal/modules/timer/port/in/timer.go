package in

import "microwins/internal/modules/timer/dto"

type Usecase interface {
	ArmFocus(limitSeconds int) dto.TimerOutput
	StopFocus() dto.TimerOutput
	PauseFocus() dto.TimerOutput
	ResumeFocus() dto.TimerOutput
	StartBreak(limitSeconds int) dto.TimerOutput
	PauseBreak() dto.TimerOutput
	ResumeBreak() dto.TimerOutput
	AcknowledgeBreak() dto.TimerOutput
	CancelBreak() dto.TimerOutput
	Tick() dto.TimerOutput
	Snapshot() dto.TimerOutput
}
