package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       HeaderData
	Tabs         []string
	ActiveTab    int
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

// HeaderData is the always-visible star counter row.
type HeaderData struct {
	StarsToday int
	StarsTotal int
	Streak     int
	Wallet     int
	Day        string
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chipStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Underline(true).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

func RenderHeader(h HeaderData) string {
	chips := []string{
		chipStyle.Render(fmt.Sprintf("⭐ today %d", h.StarsToday)),
		chipStyle.Render(fmt.Sprintf("🌟 total %d", h.StarsTotal)),
		chipStyle.Render(fmt.Sprintf("🔥 streak %d", h.Streak)),
		chipStyle.Render(fmt.Sprintf("👛 wallet %d", h.Wallet)),
	}
	title := headerStyle.Render("chorejar")
	if h.Day != "" {
		title = headerStyle.Render("chorejar · " + h.Day)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, chips...)...)
}

func renderTabs(tabs []string, active int) string {
	if len(tabs) == 0 {
		return ""
	}
	out := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if i == active {
			out = append(out, activeTabStyle.Render(label))
			continue
		}
		out = append(out, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func RenderApp(data AppData) string {
	left := panelStyle.Width(58).Render(data.LeftPane)
	right := panelStyle.Width(58).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{RenderHeader(data.Header)}
	if tabs := renderTabs(data.Tabs, data.ActiveTab); tabs != "" {
		lines = append(lines, tabs)
	}
	lines = append(lines, row, status)
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
