package profile

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prefdto "microwins/internal/modules/preference/dto"
	statsdto "microwins/internal/modules/stats/dto"
)

type fakePort struct {
	prefs    prefdto.PreferenceOutput
	stats    statsdto.StatsOutput
	statsErr error
	updates  []prefdto.UpdateInput
}

func (f *fakePort) Preferences(context.Context) (prefdto.PreferenceOutput, error) {
	return f.prefs, nil
}

func (f *fakePort) UpdatePreferences(_ context.Context, input prefdto.UpdateInput) (prefdto.PreferenceOutput, error) {
	f.updates = append(f.updates, input)
	if input.Granularity != nil {
		f.prefs.Granularity = *input.Granularity
	}
	if input.Verbosity != nil {
		f.prefs.Verbosity = *input.Verbosity
	}
	return f.prefs, nil
}

func (f *fakePort) Stats(context.Context) (statsdto.StatsOutput, error) {
	return f.stats, f.statsErr
}

func TestLoadAndCycleGranularity(t *testing.T) {
	t.Parallel()
	port := &fakePort{prefs: prefdto.PreferenceOutput{Granularity: "macro", Verbosity: 5}}
	m := New(port)

	m, _ = m.Update(m.Reload()())
	assert.Equal(t, "macro", m.prefs.Granularity)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Equal(t, "micro", m.prefs.Granularity)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, port.updates, 2)
	assert.Equal(t, 5, *port.updates[1].Verbosity)
}

func TestStatsFailureStillShowsPreferences(t *testing.T) {
	t.Parallel()
	port := &fakePort{prefs: prefdto.PreferenceOutput{Granularity: "normal"}, statsErr: errors.New("HTTP error 500")}
	m := New(port)
	m, _ = m.Update(m.Reload()())

	assert.Equal(t, "normal", m.prefs.Granularity)
	assert.False(t, m.hasStats)
	assert.Contains(t, m.View(), "stats unavailable: HTTP error 500")
}

func TestBadgesRenderEarnedAndLocked(t *testing.T) {
	t.Parallel()
	port := &fakePort{stats: statsdto.StatsOutput{
		Streak:              3,
		MotivationalMessage: "Great job! Keep your streak going!",
		Badges: []statsdto.BadgeOutput{
			{Code: "first_task", Name: "First Win!", Earned: true},
			{Code: "streak_7", Name: "7-Day Streak"},
		},
	}}
	m := New(port)
	m, _ = m.Update(m.Reload()())

	view := m.View()
	assert.Contains(t, view, "First Win!")
	assert.Contains(t, view, "🔒 7-Day Streak")
	assert.Contains(t, view, "Great job! Keep your streak going!")
}

func TestCycleUnknownStartsAtFirst(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "micro", cycle(granularities, ""))
	assert.Equal(t, "standard", cycle(fonts, "lexend"))
}
