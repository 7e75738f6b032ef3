package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	convdto "microwins/internal/modules/conversation/dto"
	taskdto "microwins/internal/modules/tasksession/dto"
	timerdto "microwins/internal/modules/timer/dto"
	"microwins/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// SubmitMsg is emitted when the user sends the input box.
type SubmitMsg struct {
	Text   string
	Energy string
}

// energies is the cycle order of the optional energy selector.
var energies = []string{"", "low", "medium", "high"}

var energyLabels = map[string]string{
	"":       "Any Energy",
	"low":    "Low Energy",
	"medium": "Medium Energy",
	"high":   "High Energy",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the conversation, the current step and both timers, and owns
// the input box. It performs no I/O; the root model feeds it state.
type Model struct {
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	entries []convdto.EntryOutput
	session taskdto.SessionOutput
	timers  timerdto.TimerOutput
	energy  int
	busy    bool
	width   int
	height  int
}

func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Describe a task, e.g. Write a report"
	ta.ShowLineNumbers = false
	ta.CharLimit = 500
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	m := Model{
		viewport: viewport.New(0, 0),
		input:    ta,
		spinner:  sp,
	}
	m.renderer = newRenderer(0)
	return m
}

func (m Model) Init() tea.Cmd { return textarea.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			energy := energies[m.energy]
			return m, func() tea.Msg { return SubmitMsg{Text: text, Energy: energy} }
		case "ctrl+e":
			m.energy = (m.energy + 1) % len(energies)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	timers := m.renderTimers()
	footer := m.renderFooter()

	vpHeight := m.height - lipgloss.Height(header) - lipgloss.Height(timers) - lipgloss.Height(footer)
	if vpHeight < 1 {
		vpHeight = 1
	}
	vp := m.viewport
	vp.Height = vpHeight
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), timers, footer)
}

// ─── state setters ───────────────────────────────────────────────────────────

func (m *Model) SetEntries(entries []convdto.EntryOutput) {
	m.entries = entries
	m.refresh()
	m.viewport.GotoBottom()
}

func (m *Model) SetSession(session taskdto.SessionOutput) { m.session = session }

func (m *Model) SetTimers(timers timerdto.TimerOutput) { m.timers = timers }

// SetBusy toggles the in-flight indicator. The returned Cmd starts the spinner.
func (m *Model) SetBusy(busy bool) tea.Cmd {
	m.busy = busy
	if busy {
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) SetInput(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
}

// SetEnergy selects an energy level; unknown values clear the selection.
func (m *Model) SetEnergy(energy string) {
	m.energy = 0
	for i, e := range energies {
		if e == energy {
			m.energy = i
		}
	}
}

func (m Model) Energy() string { return energies[m.energy] }

func (m Model) Busy() bool { return m.busy }

// RefreshStyle re-renders the transcript after a font change.
func (m *Model) RefreshStyle() {
	m.renderer = newRenderer(theme.Wrap(m.width - 4))
	m.refresh()
}

// ─── rendering ───────────────────────────────────────────────────────────────

func newRenderer(wrap int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.input.SetWidth(max(m.width-2, 10))
	m.renderer = newRenderer(theme.Wrap(m.width - 4))
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderEntries())
}

func (m Model) renderEntries() string {
	width := theme.Wrap(m.width - 4)
	body := theme.Body()
	if width > 0 {
		body = body.Width(width)
	}
	var sb strings.Builder
	for _, entry := range m.entries {
		switch entry.Kind {
		case "user":
			sb.WriteString(theme.UserBubble.Render("you") + "\n")
			sb.WriteString(body.Render(entry.Text) + "\n\n")
		case "step":
			sb.WriteString(m.renderStepCard(entry) + "\n")
		default:
			sb.WriteString(theme.Muted.Render("microwins") + "\n")
			sb.WriteString(body.Render(entry.Text) + "\n\n")
		}
	}
	return sb.String()
}

func (m Model) renderStepCard(entry convdto.EntryOutput) string {
	if entry.Step == nil {
		return theme.Body().Render(entry.Text)
	}
	card := entry.Step
	md := fmt.Sprintf("### Step %d of %d\n\n%s\n\n*Estimated: %d min*\n",
		card.StepNumber, card.TotalSteps, card.Description, card.EstimatedMinutes)
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			return rendered
		}
	}
	return md
}

func (m Model) renderHeader() string {
	s := m.session
	if s.TaskID == "" && !s.Completed {
		return theme.Title.Render("Chat") + theme.Muted.Render("  no active task") + "\n"
	}
	name := s.TaskName
	if name == "" {
		name = "Current task"
	}
	progress := fmt.Sprintf("step %d/%d", s.StepNumber, s.TotalSteps)
	if s.Completed {
		progress = "done"
	}
	bar := ProgressBar(s.ProgressPercent, 20)
	return theme.Title.Render(name) + "  " + bar + " " + theme.Muted.Render(fmt.Sprintf("%d%%  %s", s.ProgressPercent, progress)) + "\n"
}

func (m Model) renderTimers() string {
	t := m.timers
	focus := theme.Muted.Render("focus --:--")
	if t.FocusLimit > 0 {
		state := "paused"
		style := theme.Muted
		if t.FocusRunning {
			state = "running"
			style = theme.Success
		}
		focus = style.Render(fmt.Sprintf("focus %s %s", t.FocusClock, state))
	}
	brk := theme.Muted.Render("break idle (ctrl+b)")
	switch t.BreakPhase {
	case "running":
		brk = theme.Hot.Render("break " + t.BreakClock)
	case "paused":
		brk = theme.Muted.Render("break " + t.BreakClock + " paused")
	case "expired":
		brk = theme.Danger.Render("break over")
	}
	return focus + theme.Muted.Render("  │  ") + brk
}

func (m Model) renderFooter() string {
	var parts []string
	for i, e := range energies[1:] {
		label := energyLabels[e]
		if m.energy == i+1 {
			parts = append(parts, theme.Hot.Render("["+label+"]"))
		} else {
			parts = append(parts, theme.Muted.Render(" "+label+" "))
		}
	}
	selector := theme.Muted.Render("energy (ctrl+e): ") + strings.Join(parts, " ")
	status := ""
	if m.busy {
		status = m.spinner.View() + theme.Muted.Render(" working...")
	}
	return selector + "  " + status + "\n" + m.input.View()
}

// ProgressBar renders percent as a fixed-width bar.
func ProgressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return theme.Success.Render(strings.Repeat("█", filled)) + theme.Muted.Render(strings.Repeat("░", width-filled))
}
