package out

import (
	"context"

	convdto "microwins/internal/modules/conversation/dto"
	convin "microwins/internal/modules/conversation/port/in"
	prefin "microwins/internal/modules/preference/port/in"
	"microwins/internal/modules/tasksession/domain"
	taskout "microwins/internal/modules/tasksession/port/out"
	timerin "microwins/internal/modules/timer/port/in"
)

type PreferenceBridge struct {
	prefs prefin.Usecase
}

func NewPreferenceBridge(prefs prefin.Usecase) taskout.Preferences {
	return &PreferenceBridge{prefs: prefs}
}

func (b *PreferenceBridge) Snapshot(ctx context.Context, energy string) (domain.Settings, error) {
	pref, err := b.prefs.Snapshot(ctx, energy)
	if err != nil {
		return domain.Settings{}, err
	}
	return domain.Settings{
		Granularity:          pref.Granularity,
		Neurodivergence:      pref.Neurodivergence,
		BreakIntervalMinutes: pref.BreakIntervalMinutes,
		FatigueTriggers:      pref.FatigueTriggers,
		Tone:                 pref.Tone,
		Verbosity:            pref.Verbosity,
	}, nil
}

type TranscriptBridge struct {
	log convin.Usecase
}

func NewTranscriptBridge(log convin.Usecase) taskout.Transcript {
	return &TranscriptBridge{log: log}
}

func (b *TranscriptBridge) User(text string)      { b.log.AppendUser(text) }
func (b *TranscriptBridge) Assistant(text string) { b.log.AppendAssistant(text) }

func (b *TranscriptBridge) Step(session domain.Session) {
	b.log.AppendStep(convdto.StepCard{
		TaskName:         session.TaskName,
		StepNumber:       session.StepNumber,
		TotalSteps:       session.TotalSteps,
		Description:      session.StepDescription,
		EstimatedMinutes: session.EstimatedMinutes,
	})
}

func (b *TranscriptBridge) SaveHistory(ctx context.Context, title, mode string) error {
	_, err := b.log.SaveToHistory(ctx, title, mode)
	return err
}

type FocusBridge struct {
	timers timerin.Usecase
}

func NewFocusBridge(timers timerin.Usecase) taskout.FocusTimer {
	return &FocusBridge{timers: timers}
}

func (b *FocusBridge) Arm(seconds int) { b.timers.ArmFocus(seconds) }
func (b *FocusBridge) Stop()           { b.timers.StopFocus() }
