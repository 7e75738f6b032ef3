package devserver

import "time"

const dateLayout = "2006-01-02"

// NextStreak returns the streak after a task is completed on today. A second
// completion on the same day keeps the streak; a consecutive day extends it;
// anything else restarts at 1.
func NextStreak(last string, streak int, today time.Time) int {
	if last == "" {
		return 1
	}
	prev, err := time.ParseInLocation(dateLayout, last, today.Location())
	if err != nil {
		return 1
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	switch {
	case prev.Equal(day):
		return max(streak, 1)
	case prev.AddDate(0, 0, 1).Equal(day):
		return streak + 1
	default:
		return 1
	}
}

// earnedBadges lists the badge codes a user qualifies for.
func earnedBadges(tasksCompleted, streak int) []string {
	var codes []string
	if tasksCompleted >= 1 {
		codes = append(codes, "first_task")
	}
	if streak >= 3 {
		codes = append(codes, "streak_3")
	}
	if streak >= 7 {
		codes = append(codes, "streak_7")
	}
	if tasksCompleted >= 10 {
		codes = append(codes, "ten_tasks")
	}
	return codes
}
