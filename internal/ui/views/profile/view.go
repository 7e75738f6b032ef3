package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	prefdto "microwins/internal/modules/preference/dto"
	statsdto "microwins/internal/modules/stats/dto"
	"microwins/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Preferences(ctx context.Context) (prefdto.PreferenceOutput, error)
	UpdatePreferences(ctx context.Context, input prefdto.UpdateInput) (prefdto.PreferenceOutput, error)
	Stats(ctx context.Context) (statsdto.StatsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Prefs    prefdto.PreferenceOutput
	PrefErr  error
	Stats    statsdto.StatsOutput
	StatsErr error
}

type UpdatedMsg struct {
	Prefs prefdto.PreferenceOutput
	Err   error
}

var (
	granularities = []string{"micro", "normal", "macro"}
	fonts         = []string{"standard", "dyslexic", "lexend"}
	inputModes    = []string{"text", "voice"}
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	spinner  spinner.Model
	prefs    prefdto.PreferenceOutput
	stats    statsdto.StatsOutput
	hasStats bool
	message  string
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches preferences and stats again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		ctx := context.Background()
		var msg LoadedMsg
		msg.Prefs, msg.PrefErr = m.port.Preferences(ctx)
		msg.Stats, msg.StatsErr = m.port.Stats(ctx)
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		m.loading = false
		m.message = ""
		if msg.PrefErr != nil {
			m.message = "preferences: " + msg.PrefErr.Error()
		} else {
			m.prefs = msg.Prefs
		}
		if msg.StatsErr != nil {
			m.hasStats = false
			m.message = strings.TrimSpace(m.message + "  stats unavailable: " + msg.StatsErr.Error())
		} else {
			m.stats = msg.Stats
			m.hasStats = true
		}

	case UpdatedMsg:
		if msg.Err != nil {
			m.message = "update failed: " + msg.Err.Error()
			return m, nil
		}
		m.prefs = msg.Prefs
		m.message = "saved"

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// SetPreferences shows preferences pushed from elsewhere.
func (m *Model) SetPreferences(prefs prefdto.PreferenceOutput) { m.prefs = prefs }

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var input prefdto.UpdateInput
	switch msg.String() {
	case "g":
		next := cycle(granularities, m.prefs.Granularity)
		input.Granularity = &next
	case "f":
		next := cycle(fonts, m.prefs.Font)
		input.Font = &next
	case "i":
		next := cycle(inputModes, m.prefs.InputMode)
		input.InputMode = &next
	case "+", "=":
		v := min(m.prefs.Verbosity+1, 5)
		input.Verbosity = &v
	case "-":
		v := max(m.prefs.Verbosity-1, 1)
		input.Verbosity = &v
	case "]":
		v := m.prefs.BreakIntervalMinutes + 5
		input.BreakIntervalMinutes = &v
	case "[":
		v := max(m.prefs.BreakIntervalMinutes-5, 5)
		input.BreakIntervalMinutes = &v
	case "r":
		m.loading = true
		return m, tea.Batch(m.Reload(), m.spinner.Tick)
	default:
		return m, nil
	}
	return m, m.updateCmd(input)
}

func (m Model) updateCmd(input prefdto.UpdateInput) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return UpdatedMsg{Err: fmt.Errorf("preferences not configured")}
		}
		prefs, err := m.port.UpdatePreferences(context.Background(), input)
		return UpdatedMsg{Prefs: prefs, Err: err}
	}
}

func cycle(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, max(m.height, 1), lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading profile")
	}
	left := theme.Pane.Render(m.renderPreferences())
	right := theme.Pane.Render(m.renderStats())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	if m.width > 0 && lipgloss.Width(body) > m.width {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	footer := theme.Muted.Render("g granularity  f font  i input  +/- verbosity  [/] break interval  r reload")
	if m.message != "" {
		footer = theme.Hot.Render(m.message) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m Model) renderPreferences() string {
	p := m.prefs
	rows := [][2]string{
		{"Granularity", p.Granularity},
		{"Font", p.Font},
		{"Input", p.InputMode},
		{"Neurodivergence", p.Neurodivergence},
		{"Break every", fmt.Sprintf("%d min", p.BreakIntervalMinutes)},
		{"Tone", strings.Join(p.Tone, ", ")},
		{"Verbosity", fmt.Sprintf("%d/5", p.Verbosity)},
		{"Fatigue triggers", strings.Join(p.FatigueTriggers, ", ")},
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Preferences") + "\n\n")
	for _, row := range rows {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-17s", row[0])) + row[1] + "\n")
	}
	return sb.String()
}

func (m Model) renderStats() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Progress") + "\n\n")
	if !m.hasStats {
		sb.WriteString(theme.Muted.Render("No stats yet.") + "\n")
		return sb.String()
	}
	s := m.stats
	today := theme.Muted.Render("not yet today")
	if s.CompletedToday {
		today = theme.Success.Render("completed a task today")
	}
	fmt.Fprintf(&sb, "Streak        %d days  (%s)\n", s.Streak, today)
	fmt.Fprintf(&sb, "Points        %d\n", s.RewardPoints)
	fmt.Fprintf(&sb, "Tasks done    %d  (%d active)\n", s.TotalTasksCompleted, s.TotalTasksActive)
	fmt.Fprintf(&sb, "Steps done    %d\n", s.TotalStepsCompleted)
	if s.MotivationalMessage != "" {
		sb.WriteString("\n" + theme.Hot.Render(s.MotivationalMessage) + "\n")
	}
	sb.WriteString("\n" + theme.Title.Render("Badges") + "\n")
	for _, badge := range s.Badges {
		if badge.Earned {
			sb.WriteString(badge.Emoji + " " + badge.Name + theme.Muted.Render("  "+badge.Description) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render("🔒 "+badge.Name+"  "+badge.Description) + "\n")
		}
	}
	return sb.String()
}
