package dto

type CreateInput struct {
	Description string
	// Energy is the optional low/medium/high shorthand.
	Energy string
}

type SessionOutput struct {
	State            string
	TaskID           string
	TaskName         string
	StepNumber       int
	TotalSteps       int
	StepDescription  string
	EstimatedMinutes int
	Completed        bool
	ProgressPercent  int
}
