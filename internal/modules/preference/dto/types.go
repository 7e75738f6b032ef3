package dto

type PreferenceOutput struct {
	Granularity          string
	Font                 string
	FontClass            string
	InputMode            string
	Neurodivergence      string
	BreakIntervalMinutes int
	Tone                 []string
	Verbosity            int
	FatigueTriggers      []string
}

// UpdateInput is a partial edit. Nil fields are left unchanged.
type UpdateInput struct {
	Granularity          *string
	Font                 *string
	InputMode            *string
	Neurodivergence      *string
	BreakIntervalMinutes *int
	Tone                 []string
	Verbosity            *int
	FatigueTriggers      []string
}
