package theme

import (
	"context"
	"sync"

	"github.com/charmbracelet/lipgloss"

	prefdomain "microwins/internal/modules/preference/domain"
)

// A terminal cannot switch typefaces, so each font preference maps onto a
// reading style: spacing, wrap width and emphasis.
type reading struct {
	body lipgloss.Style
	wrap int
}

var (
	fontMu  sync.RWMutex
	current = readingFor(prefdomain.FontStandard)
)

func readingFor(font prefdomain.Font) reading {
	base := lipgloss.NewStyle().Foreground(Text)
	switch font {
	case prefdomain.FontDyslexic:
		// Short lines, a blank line between paragraphs and no italics.
		return reading{body: base.MarginBottom(1).Italic(false), wrap: 60}
	case prefdomain.FontLexend:
		return reading{body: base.Foreground(Lavender).MarginBottom(1), wrap: 72}
	default:
		return reading{body: base, wrap: 0}
	}
}

// SetFont switches the reading style used by Body and Wrap.
func SetFont(font prefdomain.Font) {
	r := readingFor(font)
	fontMu.Lock()
	current = r
	fontMu.Unlock()
}

// Body is the style for conversational text.
func Body() lipgloss.Style {
	fontMu.RLock()
	defer fontMu.RUnlock()
	return current.body
}

// Wrap caps width at the preferred line length for the current font.
func Wrap(width int) int {
	fontMu.RLock()
	defer fontMu.RUnlock()
	if current.wrap > 0 && (width <= 0 || width > current.wrap) {
		return current.wrap
	}
	return width
}

// FontApplier applies font preferences to the terminal theme.
type FontApplier struct{}

func (FontApplier) ApplyFont(_ context.Context, font prefdomain.Font) error {
	SetFont(font)
	return nil
}
