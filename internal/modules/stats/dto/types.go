package dto

type BadgeOutput struct {
	Code        string
	Name        string
	Emoji       string
	Description string
	Earned      bool
	EarnedAt    string
}

type StatsOutput struct {
	TotalTasksCompleted int
	TotalStepsCompleted int
	TotalTasksActive    int
	Streak              int
	RewardPoints        int
	LastCompletedDate   string
	CompletedToday      bool
	MotivationalMessage string
	// Badges is the full catalogue with earned ones marked, followed by any
	// earned badge the catalogue does not know.
	Badges []BadgeOutput
}
