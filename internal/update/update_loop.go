package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chorejar/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForEventCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed)
		}
		if m.adding() {
			return m.handleAddKey(typed)
		}

		switch typed.String() {
		case "/":
			return m.openPalette(""), textinput.Blink
		case m.Keys.Checklist:
			m.CurrentView = ViewChecklist
			return m, nil
		case m.Keys.Board:
			m.CurrentView = ViewBoard
			return m, nil
		case m.Keys.Money:
			m.CurrentView = ViewMoney
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case "tab":
			m.CurrentView = nextView(m.CurrentView)
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewChecklist:
			return m.handleChecklistKey(typed), nil
		case ViewBoard:
			return m.handleBoardKey(typed), nil
		case ViewMoney:
			return m.handleMoneyKey(typed), nil
		case ViewStats:
			var cmd tea.Cmd
			m.reportViewport, cmd = m.reportViewport.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m = m.fail(typed.Err)
		}
		return m, nil
	case StateChangedMsg:
		return m.afterChange(), nil
	case ScheduledEventMsg:
		m = m.onScheduledEvent(typed.Event)
		if m.Scheduler != nil {
			return m, waitForEventCmd(m.Scheduler.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	st := m.snapshot()
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	if m.Service != nil {
		switch m.CurrentView {
		case ViewChecklist:
			leftPane = m.renderChecklistView(st)
		case ViewBoard:
			leftPane = m.renderBoardView(st)
		case ViewMoney:
			leftPane = m.renderMoneyView(st)
		case ViewStats:
			leftPane = m.renderStatsView(st)
		}
	}

	tabs := make([]string, 0, len(allViews))
	active := 0
	for i, v := range allViews {
		tabs = append(tabs, string(v))
		if v == m.CurrentView {
			active = i
		}
	}

	day := st.LastResetDate
	if m.Service != nil {
		day = m.Service.Today()
	}
	return views.RenderApp(views.AppData{
		Header: views.HeaderData{
			StarsToday: st.Stars.Today,
			StarsTotal: st.Stars.Total,
			Streak:     st.Stars.Streak.Current,
			Wallet:     st.Wallet.Amount,
			Day:        day,
		},
		Tabs:        tabs,
		ActiveTab:   active,
		LeftPane:    leftPane,
		RightPane:   m.renderSidebar(st),
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Footer:      fmt.Sprintf("keys: 1-4 views | tab next | / cmd | %s help | %s quit", m.Keys.Help, m.Keys.Quit),
	})
}

// afterChange folds queued celebrations into notifications and keeps the
// cursors inside the lists they point into.
func (m Model) afterChange() Model {
	for _, n := range m.events.Drain() {
		m.push(n)
	}
	if m.Service == nil {
		return m
	}
	m.syncNudge()
	st := m.Service.Snapshot()
	m.Checklist.Cursor = clampIndex(m.Checklist.Cursor, len(st.Checklist))
	m.Board.Column = clampIndex(m.Board.Column, len(boardColumns))
	m.Board.Card = clampIndex(m.Board.Card, len(*st.Kanban.Cards(boardColumns[m.Board.Column])))
	return m
}

func (m Model) fail(err error) Model {
	m.LastError = err
	text := errorText(err)
	m.Status = StatusBar{Text: text, IsError: true}
	m.notify("Error", text, "error")
	m.logger.Error("action failed", "err", err)
	return m.afterChange()
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.push(Notification{Title: title, Body: body, Level: level, At: m.clock().UTC()})
}

func (m *Model) push(n Notification) {
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Debug("desktop notification failed", "err", err)
		}
	}
}

func isKnownView(v View) bool {
	for _, known := range allViews {
		if v == known {
			return true
		}
	}
	return false
}

func nextView(v View) View {
	for i, known := range allViews {
		if known == v {
			return allViews[(i+1)%len(allViews)]
		}
	}
	return ViewChecklist
}
