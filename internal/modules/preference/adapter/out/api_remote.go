package out

import (
	"context"

	"microwins/internal/modules/preference/domain"
	prefout "microwins/internal/modules/preference/port/out"
	"microwins/internal/platform/api"
)

type ProfileClient interface {
	GetProfile(ctx context.Context, userID string) (api.Profile, error)
	UpdateProfile(ctx context.Context, profile api.Profile) error
}

// APIRemote syncs preferences with the backend user profile.
type APIRemote struct {
	client ProfileClient
}

func NewAPIRemote(client ProfileClient) prefout.RemoteProfile {
	return &APIRemote{client: client}
}

func (r *APIRemote) Fetch(ctx context.Context, userID string) (domain.Patch, bool, error) {
	profile, err := r.client.GetProfile(ctx, userID)
	if err != nil {
		return domain.Patch{}, false, err
	}
	if !profile.Exists {
		return domain.Patch{}, false, nil
	}
	return profilePatch(profile), true, nil
}

func (r *APIRemote) Push(ctx context.Context, userID string, pref domain.Preference) error {
	return r.client.UpdateProfile(ctx, api.Profile{
		UserID:               userID,
		StepGranularity:      string(pref.Granularity),
		FontPreference:       string(pref.Font),
		InputMode:            string(pref.InputMode),
		Neurodivergence:      pref.Neurodivergence,
		BreakIntervalMinutes: pref.BreakIntervalMinutes,
		AITone:               pref.Tone,
		ResponseVerbosity:    pref.Verbosity,
		FatigueTriggers:      pref.FatigueTriggers,
	})
}

// profilePatch keeps only the fields the backend actually reported. Values the
// client does not understand are treated as absent.
func profilePatch(profile api.Profile) domain.Patch {
	patch := domain.Patch{}
	if g, err := domain.ParseGranularity(profile.StepGranularity); err == nil {
		patch.Granularity = &g
	}
	if f, err := domain.ParseFont(profile.FontPreference); err == nil {
		patch.Font = &f
	}
	switch mode := domain.InputMode(profile.InputMode); mode {
	case domain.InputText, domain.InputVoice:
		patch.InputMode = &mode
	}
	if profile.Neurodivergence != "" {
		nd := profile.Neurodivergence
		patch.Neurodivergence = &nd
	}
	if profile.BreakIntervalMinutes > 0 {
		interval := profile.BreakIntervalMinutes
		patch.BreakIntervalMinutes = &interval
	}
	if len(profile.AITone) > 0 {
		patch.Tone = profile.AITone
	}
	if profile.ResponseVerbosity >= 1 && profile.ResponseVerbosity <= 5 {
		verbosity := profile.ResponseVerbosity
		patch.Verbosity = &verbosity
	}
	if len(profile.FatigueTriggers) > 0 {
		patch.FatigueTriggers = profile.FatigueTriggers
	}
	return patch
}
