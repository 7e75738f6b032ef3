package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	convdto "microwins/internal/modules/conversation/dto"
	prefdto "microwins/internal/modules/preference/dto"
	statsdto "microwins/internal/modules/stats/dto"
	taskdto "microwins/internal/modules/tasksession/dto"
	timerdto "microwins/internal/modules/timer/dto"
	apperrors "microwins/internal/platform/errors"
	"microwins/internal/ui/components"
	"microwins/internal/ui/theme"
	chatview "microwins/internal/ui/views/chat"
	historyview "microwins/internal/ui/views/history"
	profileview "microwins/internal/ui/views/profile"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.

type taskPort interface {
	CreateTask(ctx context.Context, input taskdto.CreateInput) (taskdto.SessionOutput, error)
	FetchCurrentStep(ctx context.Context) (taskdto.SessionOutput, error)
	MarkStepDone(ctx context.Context) (taskdto.SessionOutput, error)
	Resume(ctx context.Context) (taskdto.SessionOutput, error)
	Abandon(ctx context.Context) error
	Current() taskdto.SessionOutput
	HasStoredTask(ctx context.Context) bool
}

type conversationPort interface {
	Entries() []convdto.EntryOutput
	AppendAssistant(text string)
	Reset(resuming bool)
	History(ctx context.Context, limit int) ([]convdto.HistoryOutput, error)
}

type timerPort interface {
	Tick() timerdto.TimerOutput
	Snapshot() timerdto.TimerOutput
	StartBreak(limitSeconds int) timerdto.TimerOutput
	PauseBreak() timerdto.TimerOutput
	ResumeBreak() timerdto.TimerOutput
	AcknowledgeBreak() timerdto.TimerOutput
	CancelBreak() timerdto.TimerOutput
	PauseFocus() timerdto.TimerOutput
	ResumeFocus() timerdto.TimerOutput
}

type preferencePort interface {
	Load(ctx context.Context) (prefdto.PreferenceOutput, error)
	Get(ctx context.Context) (prefdto.PreferenceOutput, error)
	Update(ctx context.Context, input prefdto.UpdateInput) (prefdto.PreferenceOutput, error)
}

type statsPort interface {
	Get(ctx context.Context) (statsdto.StatsOutput, error)
}

type voicePort interface {
	Name() string
	Transcribe(ctx context.Context) (string, error)
}

// Deps carries everything the root model talks to.
type Deps struct {
	Tasks        taskPort
	Conversation conversationPort
	Timers       timerPort
	Preferences  preferencePort
	Stats        statsPort
	Voice        voicePort
	BreakSeconds int
	HistoryLimit int
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabChat tabID = iota
	tabProfile
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Chat", "Profile", "History"}

// ─── messages ────────────────────────────────────────────────────────────────

// NudgeMsg is sent by the break scheduler when it is time to suggest a break.
type NudgeMsg struct{}

// PreferencesChangedMsg carries preferences changed outside the profile tab,
// e.g. by another process rewriting the cache.
type PreferencesChangedMsg struct {
	Prefs prefdto.PreferenceOutput
}

type tickMsg struct{ gen int }

type taskResultMsg struct {
	op  string
	out taskdto.SessionOutput
	err error
}

type abandonedMsg struct{ err error }

type voiceMsg struct {
	text string
	err  error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Send    key.Binding
	Energy  key.Binding
	Done    key.Binding
	Step    key.Binding
	Break   key.Binding
	Cancel  key.Binding
	Focus   key.Binding
	Voice   key.Binding
	NewChat key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Palette: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Energy:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "energy level")),
		Done:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "step done")),
		Step:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "show step")),
		Break:   key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "start/pause break")),
		Cancel:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "cancel break")),
		Focus:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "pause/resume focus")),
		Voice:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "voice input")),
		NewChat: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Energy, k.Voice, k.NewChat},
		{k.Done, k.Step, k.Focus},
		{k.Break, k.Cancel},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the timer tick
// loop, the break reminder and the command palette. Business logic lives
// behind the ports; rendering is delegated to sub-views.
type Model struct {
	deps Deps

	chatView    chatview.Model
	profileView profileview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette

	// tickGen tags the running tick loop; ticks from an older generation are
	// dropped, which freezes the timers while the chat tab is hidden.
	tickGen   int
	reminder  bool
	nudged    bool
	resumable bool
	inputMode string
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(deps Deps) Model {
	if deps.BreakSeconds <= 0 {
		deps.BreakSeconds = 300
	}
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 20
	}
	m := Model{
		deps:        deps,
		chatView:    chatview.New(),
		profileView: profileview.New(profilePortBridge{prefs: deps.Preferences, stats: deps.Stats}),
		historyView: historyview.New(deps.Conversation, deps.HistoryLimit),
		activeTab:   tabChat,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
	m.resumable = deps.Tasks.HasStoredTask(context.Background())
	if deps.Preferences != nil {
		if prefs, err := deps.Preferences.Get(context.Background()); err == nil {
			m.inputMode = prefs.InputMode
		}
	}
	m.chatView.SetEntries(deps.Conversation.Entries())
	m.chatView.SetSession(deps.Tasks.Current())
	m.chatView.SetTimers(deps.Timers.Snapshot())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.chatView.Init(),
		m.profileView.Init(),
		m.historyView.Init(),
		tickCmd(m.tickGen),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen || m.activeTab != tabChat {
			return m, nil
		}
		out := m.deps.Timers.Tick()
		m.chatView.SetTimers(out)
		if out.BreakExpired {
			m.reminder = true
			m.nudged = false
		}
		return m, tickCmd(m.tickGen)

	case spinner.TickMsg:
		var chatCmd, profileCmd tea.Cmd
		if m.chatView.Busy() {
			m.refreshChat()
		}
		m.chatView, chatCmd = m.chatView.Update(msg)
		m.profileView, profileCmd = m.profileView.Update(msg)
		return m, tea.Batch(chatCmd, profileCmd)

	case chatview.SubmitMsg:
		return m.submit(msg)

	case taskResultMsg:
		if errors.Is(msg.err, apperrors.ErrRequestInFlight) {
			// The request holding the slot still owns the spinner.
			m.status = errorStatus(msg.op, msg.err)
			return m, nil
		}
		m.chatView.SetBusy(false)
		m.refreshChat()
		if msg.err != nil {
			m.status = errorStatus(msg.op, msg.err)
			return m, nil
		}
		m.resumable = false
		switch {
		case msg.out.Completed:
			m.status = "Task complete!"
			m.chatView.SetSession(msg.out)
			cmds = append(cmds, m.profileView.Reload())
		case msg.op == "create":
			m.status = "task created"
			cmds = append(cmds, m.historyView.Reload())
		default:
			m.status = fmt.Sprintf("step %d of %d", msg.out.StepNumber, msg.out.TotalSteps)
		}
		if msg.op == "done" {
			cmds = append(cmds, m.profileView.Reload())
		}
		return m, tea.Batch(cmds...)

	case abandonedMsg:
		m.refreshChat()
		if msg.err != nil {
			m.status = errorStatus("abandon", msg.err)
		} else {
			m.resumable = false
			m.status = "task set aside"
		}
		return m, nil

	case voiceMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.chatView.SetInput(msg.text)
		m.status = "heard: " + msg.text
		return m, nil

	case NudgeMsg:
		if !m.reminder {
			m.nudged = true
			m.status = "You've been focusing for a while. Take a short break? (ctrl+b)"
		}
		return m, nil

	case PreferencesChangedMsg:
		m.profileView.SetPreferences(msg.Prefs)
		m.inputMode = msg.Prefs.InputMode
		m.chatView.RefreshStyle()
		return m, nil

	case profileview.LoadedMsg, profileview.UpdatedMsg:
		var cmd tea.Cmd
		m.profileView, cmd = m.profileView.Update(msg)
		if updated, ok := msg.(profileview.UpdatedMsg); ok && updated.Err == nil {
			m.inputMode = updated.Prefs.InputMode
			m.chatView.RefreshStyle()
		}
		return m, cmd

	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case historyview.ReuseMsg:
		m.chatView.SetInput(msg.Title)
		m.chatView.SetEnergy(msg.Mode)
		return m.switchTab(tabChat)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.reminder {
			switch msg.String() {
			case "enter", "esc", " ":
				m.reminder = false
				m.chatView.SetTimers(m.deps.Timers.AcknowledgeBreak())
				m.status = "Welcome back. Pick up where you left off."
			}
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "f1" || msg.String() == "esc" || msg.String() == "?" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabChat:
		m.chatView, tabCmd = m.chatView.Update(msg)
	case tabProfile:
		m.profileView, tabCmd = m.profileView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// handleKey applies global bindings. Keys that are not global fall through to
// the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		next, cmd := m.switchTab((m.activeTab + 1) % tabCount)
		return next, cmd, true
	case "shift+tab":
		next, cmd := m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		return next, cmd, true
	case "f1":
		m.showHelp = true
		return m, nil, true
	case "ctrl+p":
		return m, m.palette.Open(), true
	case "ctrl+o":
		next, cmd := m.runTask("done")
		return next, cmd, true
	case "ctrl+s":
		next, cmd := m.runTask("step")
		return next, cmd, true
	case "ctrl+b":
		m.toggleBreak()
		return m, nil, true
	case "ctrl+x":
		m.chatView.SetTimers(m.deps.Timers.CancelBreak())
		m.status = "break cancelled"
		return m, nil, true
	case "ctrl+f":
		m.toggleFocus()
		return m, nil, true
	case "ctrl+r":
		m.status = "listening..."
		return m, m.voiceCmd(), true
	case "ctrl+n":
		m.newChat()
		return m, nil, true
	}
	if m.activeTab != tabChat {
		switch msg.String() {
		case "q":
			return m, tea.Quit, true
		case "?":
			m.showHelp = true
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m Model) submit(msg chatview.SubmitMsg) (tea.Model, tea.Cmd) {
	if m.resumable && isResumeReply(msg.Text) && m.deps.Tasks.Current().State == "idle" {
		return m.runTask("resume")
	}
	m.nudged = false
	busyCmd := m.chatView.SetBusy(true)
	m.status = "Creating your task breakdown..."
	input := taskdto.CreateInput{Description: msg.Text, Energy: msg.Energy}
	return m, tea.Batch(busyCmd, func() tea.Msg {
		out, err := m.deps.Tasks.CreateTask(context.Background(), input)
		return taskResultMsg{op: "create", out: out, err: err}
	})
}

// runTask starts one controller call: done, step or resume.
func (m Model) runTask(op string) (Model, tea.Cmd) {
	if op == "step" && m.deps.Tasks.Current().State == "idle" {
		op = "resume"
	}
	busyCmd := m.chatView.SetBusy(true)
	tasks := m.deps.Tasks
	return m, tea.Batch(busyCmd, func() tea.Msg {
		ctx := context.Background()
		var (
			out taskdto.SessionOutput
			err error
		)
		switch op {
		case "done":
			out, err = tasks.MarkStepDone(ctx)
		case "resume":
			out, err = tasks.Resume(ctx)
		default:
			out, err = tasks.FetchCurrentStep(ctx)
		}
		return taskResultMsg{op: op, out: out, err: err}
	})
}

func (m *Model) toggleBreak() {
	t := m.deps.Timers
	var out timerdto.TimerOutput
	switch t.Snapshot().BreakPhase {
	case "running":
		out = t.PauseBreak()
		m.status = "break paused"
	case "paused":
		out = t.ResumeBreak()
		m.status = "break resumed"
	default:
		out = t.StartBreak(m.deps.BreakSeconds)
		m.status = "Enjoy your break."
	}
	m.nudged = false
	m.chatView.SetTimers(out)
}

func (m *Model) toggleFocus() {
	t := m.deps.Timers
	snap := t.Snapshot()
	switch {
	case snap.FocusLimit == 0:
		m.status = "no step loaded"
		return
	case snap.FocusRunning:
		m.chatView.SetTimers(t.PauseFocus())
		m.status = "focus paused"
	default:
		m.chatView.SetTimers(t.ResumeFocus())
		m.status = "focus resumed"
	}
}

func (m Model) switchTab(tab tabID) (Model, tea.Cmd) {
	if tab == m.activeTab {
		return m, nil
	}
	leaving := m.activeTab == tabChat
	m.activeTab = tab
	if leaving || tab == tabChat {
		// Any tab change invalidates the running loop; only the chat tab
		// starts a new one.
		m.tickGen++
	}
	if tab == tabChat {
		m.chatView.SetTimers(m.deps.Timers.Snapshot())
		return m, tickCmd(m.tickGen)
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.reminder:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, renderReminder())
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func renderReminder() string {
	return theme.Modal.Render(
		theme.Hot.Render("Break's over!") + "\n\n" +
			"Stretch, take a breath, and come back when you're ready.\n\n" +
			theme.Muted.Render("press enter to continue"),
	)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabChat:
		return m.chatView.View()
	case tabProfile:
		return m.profileView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "microwins  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.nudged {
		left = theme.Hot.Render(left)
	}
	if m.inputMode == "voice" {
		left = theme.Muted.Render("[voice: ctrl+r] ") + left
	}
	right := theme.Muted.Render("f1:help  tab:switch  ctrl+p:palette  ctrl+c:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "task:new":
		if arg == "" {
			m.status = "usage: task:new <description>"
			return m, nil
		}
		next, tabCmd := m.switchTab(tabChat)
		model, cmd := next.submit(chatview.SubmitMsg{Text: arg, Energy: next.chatView.Energy()})
		return model, tea.Batch(tabCmd, cmd)
	case "task:step":
		return m.runTask("step")
	case "task:done":
		return m.runTask("done")
	case "task:abandon":
		tasks := m.deps.Tasks
		return m, func() tea.Msg { return abandonedMsg{err: tasks.Abandon(context.Background())} }
	case "break:start":
		seconds := m.deps.BreakSeconds
		if arg != "" {
			minutes, err := strconv.Atoi(arg)
			if err != nil || minutes <= 0 {
				m.status = "usage: break:start [minutes]"
				return m, nil
			}
			seconds = minutes * 60
		}
		m.chatView.SetTimers(m.deps.Timers.StartBreak(seconds))
		m.status = "Enjoy your break."
	case "break:pause":
		m.chatView.SetTimers(m.deps.Timers.PauseBreak())
	case "break:resume":
		m.chatView.SetTimers(m.deps.Timers.ResumeBreak())
	case "break:cancel":
		m.chatView.SetTimers(m.deps.Timers.CancelBreak())
	case "focus:pause":
		m.chatView.SetTimers(m.deps.Timers.PauseFocus())
	case "focus:resume":
		m.chatView.SetTimers(m.deps.Timers.ResumeFocus())
	case "prefs:granularity":
		return m, m.updatePrefsCmd(prefdto.UpdateInput{Granularity: &arg})
	case "prefs:font":
		return m, m.updatePrefsCmd(prefdto.UpdateInput{Font: &arg})
	case "prefs:input":
		return m, m.updatePrefsCmd(prefdto.UpdateInput{InputMode: &arg})
	case "prefs:sync":
		m.status = "syncing preferences..."
		return m, m.syncPrefsCmd()
	case "voice":
		m.status = "listening..."
		return m, m.voiceCmd()
	case "chat:new":
		m.newChat()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) refreshChat() {
	m.chatView.SetEntries(m.deps.Conversation.Entries())
	m.chatView.SetSession(m.deps.Tasks.Current())
	m.chatView.SetTimers(m.deps.Timers.Snapshot())
}

// newChat drops the transcript back to the greeting. The task session and
// timers are left alone.
func (m *Model) newChat() {
	m.deps.Conversation.Reset(false)
	m.resumable = false
	m.refreshChat()
	m.status = "new conversation"
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-3, 1)}
	m.chatView, _ = m.chatView.Update(sz)
	m.profileView, _ = m.profileView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

func isResumeReply(text string) bool {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!")) {
	case "continue", "yes", "resume", "y":
		return true
	}
	return false
}

func errorStatus(op string, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrRequestInFlight):
		return "Still working on the last request."
	case errors.Is(err, apperrors.ErrNoActiveTask):
		return "No active task. Describe one to get started."
	case errors.Is(err, apperrors.ErrTaskAlreadyActive):
		return "A task is already active. Finish or abandon it first."
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "Please describe a task first."
	}
	return op + " failed: " + err.Error()
}

// ─── async commands ──────────────────────────────────────────────────────────

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) voiceCmd() tea.Cmd {
	voice := m.deps.Voice
	return func() tea.Msg {
		if voice == nil {
			return voiceMsg{err: fmt.Errorf("voice input is not supported here: %w", apperrors.ErrCapabilityUnavailable)}
		}
		text, err := voice.Transcribe(context.Background())
		return voiceMsg{text: text, err: err}
	}
}

func (m Model) updatePrefsCmd(input prefdto.UpdateInput) tea.Cmd {
	prefs := m.deps.Preferences
	return func() tea.Msg {
		if prefs == nil {
			return profileview.UpdatedMsg{Err: fmt.Errorf("preferences not configured")}
		}
		out, err := prefs.Update(context.Background(), input)
		return profileview.UpdatedMsg{Prefs: out, Err: err}
	}
}

func (m Model) syncPrefsCmd() tea.Cmd {
	prefs := m.deps.Preferences
	return func() tea.Msg {
		if prefs == nil {
			return profileview.UpdatedMsg{Err: fmt.Errorf("preferences not configured")}
		}
		out, err := prefs.Load(context.Background())
		return profileview.UpdatedMsg{Prefs: out, Err: err}
	}
}

// ─── port bridges ────────────────────────────────────────────────────────────

type profilePortBridge struct {
	prefs preferencePort
	stats statsPort
}

func (b profilePortBridge) Preferences(ctx context.Context) (prefdto.PreferenceOutput, error) {
	if b.prefs == nil {
		return prefdto.PreferenceOutput{}, fmt.Errorf("preferences not configured")
	}
	return b.prefs.Get(ctx)
}

func (b profilePortBridge) UpdatePreferences(ctx context.Context, input prefdto.UpdateInput) (prefdto.PreferenceOutput, error) {
	if b.prefs == nil {
		return prefdto.PreferenceOutput{}, fmt.Errorf("preferences not configured")
	}
	return b.prefs.Update(ctx, input)
}

func (b profilePortBridge) Stats(ctx context.Context) (statsdto.StatsOutput, error) {
	if b.stats == nil {
		return statsdto.StatsOutput{}, fmt.Errorf("stats not configured")
	}
	return b.stats.Get(ctx)
}
