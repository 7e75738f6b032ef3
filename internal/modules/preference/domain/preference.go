package domain

import (
	"fmt"
	"slices"
	"strings"

	apperrors "microwins/internal/platform/errors"
)

type Granularity string

const (
	GranularityMicro  Granularity = "micro"
	GranularityNormal Granularity = "normal"
	GranularityMacro  Granularity = "macro"
)

type Font string

const (
	FontStandard Font = "standard"
	FontDyslexic Font = "dyslexic"
	FontLexend   Font = "lexend"
)

type InputMode string

const (
	InputText  InputMode = "text"
	InputVoice InputMode = "voice"
)

// Energy is the low/medium/high shorthand a user may give at task creation.
type Energy string

const (
	EnergyNone   Energy = ""
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

type Preference struct {
	Granularity          Granularity
	Font                 Font
	InputMode            InputMode
	Neurodivergence      string
	BreakIntervalMinutes int
	Tone                 []string
	Verbosity            int
	FatigueTriggers      []string
}

// Patch is a partial preference. Nil fields are absent.
type Patch struct {
	Granularity          *Granularity `yaml:"granularity,omitempty"`
	Font                 *Font        `yaml:"font,omitempty"`
	InputMode            *InputMode   `yaml:"input_mode,omitempty"`
	Neurodivergence      *string      `yaml:"neurodivergence,omitempty"`
	BreakIntervalMinutes *int         `yaml:"break_interval_minutes,omitempty"`
	Tone                 []string     `yaml:"tone,omitempty"`
	Verbosity            *int         `yaml:"verbosity,omitempty"`
	FatigueTriggers      []string     `yaml:"fatigue_triggers,omitempty"`
}

func Defaults() Preference {
	return Preference{
		Granularity:          GranularityNormal,
		Font:                 FontStandard,
		InputMode:            InputText,
		Neurodivergence:      "ADHD",
		BreakIntervalMinutes: 25,
		Tone:                 []string{"calm"},
		Verbosity:            3,
		FatigueTriggers:      []string{"long paragraphs"},
	}
}

// Apply overlays the present fields of patch onto p.
func (p Preference) Apply(patch Patch) Preference {
	out := p
	if patch.Granularity != nil {
		out.Granularity = *patch.Granularity
	}
	if patch.Font != nil {
		out.Font = *patch.Font
	}
	if patch.InputMode != nil {
		out.InputMode = *patch.InputMode
	}
	if patch.Neurodivergence != nil {
		out.Neurodivergence = *patch.Neurodivergence
	}
	if patch.BreakIntervalMinutes != nil {
		out.BreakIntervalMinutes = *patch.BreakIntervalMinutes
	}
	if patch.Tone != nil {
		out.Tone = slices.Clone(patch.Tone)
	}
	if patch.Verbosity != nil {
		out.Verbosity = *patch.Verbosity
	}
	if patch.FatigueTriggers != nil {
		out.FatigueTriggers = slices.Clone(patch.FatigueTriggers)
	}
	return out
}

func (p Preference) Equal(o Preference) bool {
	return p.Granularity == o.Granularity &&
		p.Font == o.Font &&
		p.InputMode == o.InputMode &&
		p.Neurodivergence == o.Neurodivergence &&
		p.BreakIntervalMinutes == o.BreakIntervalMinutes &&
		slices.Equal(p.Tone, o.Tone) &&
		p.Verbosity == o.Verbosity &&
		slices.Equal(p.FatigueTriggers, o.FatigueTriggers)
}

// Resolve layers patches over the defaults, later patches winning.
func Resolve(patches ...Patch) Preference {
	out := Defaults()
	for _, patch := range patches {
		out = out.Apply(patch)
	}
	return out
}

// Merge overlays upper onto lower field by field.
func Merge(lower, upper Patch) Patch {
	out := lower
	if upper.Granularity != nil {
		out.Granularity = upper.Granularity
	}
	if upper.Font != nil {
		out.Font = upper.Font
	}
	if upper.InputMode != nil {
		out.InputMode = upper.InputMode
	}
	if upper.Neurodivergence != nil {
		out.Neurodivergence = upper.Neurodivergence
	}
	if upper.BreakIntervalMinutes != nil {
		out.BreakIntervalMinutes = upper.BreakIntervalMinutes
	}
	if upper.Tone != nil {
		out.Tone = upper.Tone
	}
	if upper.Verbosity != nil {
		out.Verbosity = upper.Verbosity
	}
	if upper.FatigueTriggers != nil {
		out.FatigueTriggers = upper.FatigueTriggers
	}
	return out
}

// Full turns a resolved preference into a patch with every field present.
func Full(p Preference) Patch {
	return Patch{
		Granularity:          &p.Granularity,
		Font:                 &p.Font,
		InputMode:            &p.InputMode,
		Neurodivergence:      &p.Neurodivergence,
		BreakIntervalMinutes: &p.BreakIntervalMinutes,
		Tone:                 slices.Clone(p.Tone),
		Verbosity:            &p.Verbosity,
		FatigueTriggers:      slices.Clone(p.FatigueTriggers),
	}
}

func (p Patch) Validate() error {
	if p.Granularity != nil {
		if _, err := ParseGranularity(string(*p.Granularity)); err != nil {
			return err
		}
	}
	if p.Font != nil {
		if _, err := ParseFont(string(*p.Font)); err != nil {
			return err
		}
	}
	if p.InputMode != nil {
		switch *p.InputMode {
		case InputText, InputVoice:
		default:
			return fmt.Errorf("input mode %q: %w", *p.InputMode, apperrors.ErrInvalidInput)
		}
	}
	if p.Neurodivergence != nil && strings.TrimSpace(*p.Neurodivergence) == "" {
		return fmt.Errorf("neurodivergence must not be blank: %w", apperrors.ErrInvalidInput)
	}
	if p.BreakIntervalMinutes != nil && *p.BreakIntervalMinutes <= 0 {
		return fmt.Errorf("break interval must be positive: %w", apperrors.ErrInvalidInput)
	}
	// An empty list cannot be told apart from an absent one in the cache or
	// the profile, so clearing a list is not an edit.
	if p.Tone != nil && len(p.Tone) == 0 {
		return fmt.Errorf("tone must list at least one value: %w", apperrors.ErrInvalidInput)
	}
	if p.FatigueTriggers != nil && len(p.FatigueTriggers) == 0 {
		return fmt.Errorf("fatigue triggers must list at least one value: %w", apperrors.ErrInvalidInput)
	}
	if p.Verbosity != nil && (*p.Verbosity < 1 || *p.Verbosity > 5) {
		return fmt.Errorf("verbosity must be between 1 and 5: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

func ParseGranularity(raw string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(raw))); g {
	case GranularityMicro, GranularityNormal, GranularityMacro:
		return g, nil
	}
	return "", fmt.Errorf("granularity %q: %w", raw, apperrors.ErrInvalidInput)
}

func ParseFont(raw string) (Font, error) {
	switch f := Font(strings.ToLower(strings.TrimSpace(raw))); f {
	case FontStandard, FontDyslexic, FontLexend:
		return f, nil
	}
	return "", fmt.Errorf("font %q: %w", raw, apperrors.ErrInvalidInput)
}

func ParseEnergy(raw string) (Energy, error) {
	switch e := Energy(strings.ToLower(strings.TrimSpace(raw))); e {
	case EnergyNone, EnergyLow, EnergyMedium, EnergyHigh:
		return e, nil
	}
	return "", fmt.Errorf("energy level %q: %w", raw, apperrors.ErrInvalidInput)
}

// ForEnergy maps the energy shorthand onto a granularity. Medium and no hint
// keep the preference's own granularity.
func ForEnergy(energy Energy, own Granularity) Granularity {
	switch energy {
	case EnergyLow:
		return GranularityMicro
	case EnergyHigh:
		return GranularityMacro
	default:
		return own
	}
}

// FontClass is the class name granted to the rendering surface for a font.
func FontClass(font Font) string {
	switch font {
	case FontDyslexic:
		return "dyslexic-font"
	case FontLexend:
		return "lexend-font"
	default:
		return ""
	}
}
