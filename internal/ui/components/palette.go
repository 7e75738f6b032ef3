package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"microwins/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle     = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

type command struct {
	verb string
	args string
	help string
}

// commands must stay in sync with the switch in app/model.go executePalette.
var commands = []command{
	{"task:new", "<description>", "break a new task into steps"},
	{"task:step", "", "reload the current step"},
	{"task:done", "", "mark the current step done"},
	{"task:abandon", "", "forget the current task"},
	{"break:start", "[minutes]", "start a break"},
	{"break:pause", "", "pause the break"},
	{"break:resume", "", "resume the break"},
	{"break:cancel", "", "end the break early"},
	{"focus:pause", "", "pause the step timer"},
	{"focus:resume", "", "resume the step timer"},
	{"prefs:granularity", "<micro|normal|macro>", "step size"},
	{"prefs:font", "<standard|dyslexic|lexend>", "reading font"},
	{"prefs:input", "<text|voice>", "input mode"},
	{"prefs:sync", "", "pull the remote profile"},
	{"voice", "", "dictate a task"},
	{"chat:new", "", "start a fresh conversation"},
}

const maxSuggestions = 6

// Palette is a command-palette overlay backed by bubbles/textinput. Tab
// completes the highlighted command; up/down move the highlight.
type Palette struct {
	input    textinput.Model
	visible  bool
	width    int
	selected int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command, tab to complete"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.selected = 0
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if matches := p.matches(); len(matches) > 0 {
				c := matches[min(p.selected, len(matches)-1)]
				completed := c.verb
				if c.args != "" {
					completed += " "
				}
				p.input.SetValue(completed)
				p.input.CursorEnd()
				p.selected = 0
			}
			return p, nil
		case "up":
			p.selected = max(p.selected-1, 0)
			return p, nil
		case "down":
			p.selected = min(p.selected+1, max(len(p.matches())-1, 0))
			return p, nil
		}
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.selected = 0
	}
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// matches returns the commands whose verb starts with the typed verb. Once
// arguments are being typed only the exact verb stays listed.
func (p Palette) matches() []command {
	typed := strings.ToLower(strings.TrimLeft(p.input.Value(), " "))
	verb, _, hasArgs := strings.Cut(typed, " ")
	var out []command
	for _, c := range commands {
		if hasArgs && c.verb != verb {
			continue
		}
		if strings.HasPrefix(c.verb, verb) {
			out = append(out, c)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matches := p.matches(); len(matches) > 0 {
		sb.WriteString("\n")
		for i, c := range matches {
			line := strings.TrimSpace(c.verb + " " + c.args)
			if i == p.selected {
				sb.WriteString(selectedStyle.Render("› "+line) + hintStyle.Render("  "+c.help) + "\n")
				continue
			}
			sb.WriteString(hintStyle.Render("  "+line) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
