package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	convdto "microwins/internal/modules/conversation/dto"
	taskdto "microwins/internal/modules/tasksession/dto"
	timerdto "microwins/internal/modules/timer/dto"
)

func TestEnterSubmitsTrimmedInputWithEnergy(t *testing.T) {
	t.Parallel()
	m := New()
	m.SetInput("  Write a report  ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, "low", m.Energy())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Text: "Write a report", Energy: "low"}, cmd())
}

func TestEnterIgnoredWhileBusyOrBlank(t *testing.T) {
	t.Parallel()
	m := New()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	m.SetInput("Tidy desk")
	_ = m.SetBusy(true)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEnergyCycleWraps(t *testing.T) {
	t.Parallel()
	m := New()
	for range energies {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	}
	assert.Equal(t, "", m.Energy())
	m.SetEnergy("high")
	assert.Equal(t, "high", m.Energy())
	m.SetEnergy("bogus")
	assert.Equal(t, "", m.Energy())
}

func TestViewShowsStepAndTimers(t *testing.T) {
	t.Parallel()
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.SetSession(taskdto.SessionOutput{TaskID: "t1", TaskName: "Write a report", StepNumber: 1, TotalSteps: 4, ProgressPercent: 25})
	m.SetTimers(timerdto.TimerOutput{FocusLimit: 600, FocusRunning: true, FocusClock: "10:00", BreakPhase: "idle"})
	m.SetEntries([]convdto.EntryOutput{
		{Kind: "assistant", Text: "Hello there"},
		{Kind: "step", Step: &convdto.StepCard{StepNumber: 1, TotalSteps: 4, Description: "Open the doc", EstimatedMinutes: 10}},
	})

	view := m.View()
	assert.Contains(t, view, "Write a report")
	assert.Contains(t, view, "step 1/4")
	assert.Contains(t, view, "focus 10:00 running")
	assert.Contains(t, view, "Hello there")
	assert.Contains(t, view, "Open")
}

func TestProgressBarClamps(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ProgressBar(100, 10), ProgressBar(250, 10))
	assert.Equal(t, ProgressBar(0, 10), ProgressBar(-5, 10))
}
