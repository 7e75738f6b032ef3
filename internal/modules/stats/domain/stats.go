package domain

import (
	"time"
)

type Badge struct {
	Code        string
	Name        string
	Emoji       string
	Description string
	EarnedAt    string
}

type Stats struct {
	TotalTasksCompleted int
	TotalStepsCompleted int
	TotalTasksActive    int
	Streak              int
	RewardPoints        int
	LastCompletedDate   string
	MotivationalMessage string
	Badges              []Badge
}

// Catalogue lists every badge the backend can award, in display order.
func Catalogue() []Badge {
	return []Badge{
		{Code: "first_task", Name: "First Win!", Emoji: "🥇", Description: "Completed your first task."},
		{Code: "streak_3", Name: "3-Day Streak", Emoji: "🔥", Description: "Completed tasks 3 days in a row."},
		{Code: "streak_7", Name: "7-Day Streak", Emoji: "🏆", Description: "Completed tasks 7 days in a row."},
		{Code: "ten_tasks", Name: "10 Tasks Done", Emoji: "🎯", Description: "Completed 10 tasks."},
		{Code: "hard_worker", Name: "Hard Worker", Emoji: "💪", Description: "Completed a hard difficulty task."},
	}
}

func LookupBadge(code string) (Badge, bool) {
	for _, badge := range Catalogue() {
		if badge.Code == code {
			return badge, true
		}
	}
	return Badge{}, false
}

func Motivation(streak, completed int) string {
	switch {
	case streak >= 7:
		return "Amazing! You're on a hot streak!"
	case streak >= 3:
		return "Great job! Keep your streak going!"
	case completed > 0:
		return "Every step counts. Keep it up!"
	default:
		return "Let's get started with your first win!"
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// CompletedToday reports whether last falls on the same local calendar day
// as now. Unparseable dates count as not today.
func CompletedToday(last string, now time.Time) bool {
	if last == "" {
		return false
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, last, now.Location())
		if err != nil {
			continue
		}
		if layout == time.RFC3339Nano {
			t = t.In(now.Location())
		}
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	return false
}
