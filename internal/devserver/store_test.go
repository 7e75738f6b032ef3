package devserver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStreak(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	assert.Equal(t, 1, NextStreak("", 0, today))
	assert.Equal(t, 4, NextStreak("2026-03-10", 4, today))
	assert.Equal(t, 5, NextStreak("2026-03-09", 4, today))
	assert.Equal(t, 1, NextStreak("2026-03-07", 4, today))
	assert.Equal(t, 1, NextStreak("garbage", 4, today))
}

func TestBreakdownTemplates(t *testing.T) {
	t.Parallel()
	for granularity, want := range map[string][2]int{"micro": {8, 5}, "normal": {6, 10}, "macro": {4, 20}, "": {6, 10}} {
		steps := Breakdown("Pack for the trip", granularity)
		require.Len(t, steps, want[0], granularity)
		for _, step := range steps {
			assert.Equal(t, want[1], step.Minutes)
			assert.NotContains(t, step.Description, "%")
		}
	}
}

func TestStreakBadgesAcrossDays(t *testing.T) {
	t.Parallel()
	store, err := OpenStore(filepath.Join(t.TempDir(), "dev.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		task := Task{
			ID:        "t" + string(rune('a'+i)),
			UserID:    "u1",
			Title:     "Tidy desk",
			Steps:     Breakdown("Tidy desk", "macro"),
			CreatedAt: day,
		}
		require.NoError(t, store.CreateTask(ctx, task))
		for range task.Steps {
			_, err := store.MarkDone(ctx, task.ID, day)
			require.NoError(t, err)
		}
		day = day.AddDate(0, 0, 1)
	}

	stats, err := store.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Streak)
	assert.Equal(t, 3, stats.TotalTasksCompleted)
	assert.Equal(t, 120, stats.RewardPoints)
	assert.Equal(t, "Great job! Keep your streak going!", stats.MotivationalMessage)
	codes := []string{}
	for _, badge := range stats.Badges {
		codes = append(codes, badge.Code)
	}
	assert.ElementsMatch(t, []string{"first_task", "streak_3"}, codes)
}
