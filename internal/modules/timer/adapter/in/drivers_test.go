package in_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	timerin "microwins/internal/modules/timer/adapter/in"
	timerdto "microwins/internal/modules/timer/dto"
	"microwins/internal/modules/timer/service"
	"microwins/internal/modules/timer/usecase"
)

func TestTickerDriverRunsBreakToExpiry(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewTimers())
	driver := timerin.NewTickerDriver(uc, time.Millisecond)

	var ticks []timerdto.TimerOutput
	out, err := driver.RunBreak(context.Background(), 3, func(o timerdto.TimerOutput) { ticks = append(ticks, o) })
	require.NoError(t, err)
	assert.True(t, out.BreakExpired)
	assert.Len(t, ticks, 4)
	assert.Equal(t, "idle", uc.Snapshot().BreakPhase)
}

func TestTickerDriverStopsOnCancel(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewTimers())
	driver := timerin.NewTickerDriver(uc, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := driver.RunBreak(ctx, 300, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "idle", out.BreakPhase)
}

func TestNudgerOnlyNudgesWhileFocusing(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewTimers())
	calls := 0
	nudger := timerin.NewNudger(uc, func(timerdto.TimerOutput) { calls++ })

	nudger.Nudge()
	assert.Zero(t, calls)

	uc.ArmFocus(600)
	nudger.Nudge()
	assert.Equal(t, 1, calls)

	uc.StartBreak(60)
	nudger.Nudge()
	assert.Equal(t, 1, calls)
}

func TestNudgerSchedules(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewTimers())
	nudger := timerin.NewNudger(uc, nil)
	require.NoError(t, nudger.Start(0))
	require.NoError(t, nudger.Start(25))
	require.NoError(t, nudger.Reschedule(10))
	nudger.Stop()
}
