package history

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	convdto "microwins/internal/modules/conversation/dto"
	"microwins/internal/ui/theme"
)

type Port interface {
	History(ctx context.Context, limit int) ([]convdto.HistoryOutput, error)
}

type LoadedMsg struct {
	Items []convdto.HistoryOutput
	Err   error
}

// ReuseMsg asks the chat tab to start again from a past task.
type ReuseMsg struct {
	Title string
	Mode  string
}

type historyItem struct {
	record convdto.HistoryOutput
}

func (i historyItem) Title() string { return i.record.Title }
func (i historyItem) Description() string {
	return fmt.Sprintf("%s  %s", i.record.CreatedAt.Local().Format("Jan 2 15:04"), i.record.Mode)
}
func (i historyItem) FilterValue() string { return i.record.Title }

type Model struct {
	port  Port
	list  list.Model
	limit int
}

func New(port Port, limit int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recent tasks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("task", "tasks")

	return Model{port: port, list: l, limit: limit}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		items, err := m.port.History(context.Background(), m.limit)
		return LoadedMsg{Items: items, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Recent tasks: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Recent tasks"
		items := make([]list.Item, len(msg.Items))
		for i, record := range msg.Items {
			items[i] = historyItem{record: record}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.list.SettingFilter() {
			if item, ok := m.list.SelectedItem().(historyItem); ok {
				return m, func() tea.Msg { return ReuseMsg{Title: item.record.Title, Mode: item.record.Mode} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() == list.Unfiltered {
		return theme.Title.Render(m.list.Title) + "\n\n" + theme.Muted.Render("No tasks yet. Start one from the Chat tab.")
	}
	return m.list.View()
}

// Filtering reports whether the list filter is taking keystrokes.
func (m Model) Filtering() bool { return m.list.SettingFilter() }
