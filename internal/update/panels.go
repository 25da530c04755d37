package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/sandeepkv93/chorejar/internal/model"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/views"
)

// ReportData adapts a week summary for views.WeeklyReportMarkdown.
func ReportData(sum rewards.WeekSummary, streak int) views.WeekReportData {
	out := views.WeekReportData{
		Stars:         sum.Stars,
		Tasks:         sum.Tasks,
		HasLastWeek:   sum.HasLastWeek,
		LastWeekStars: sum.LastWeekStars,
		LastWeekTasks: sum.LastWeekTasks,
		Streak:        streak,
	}
	for _, d := range sum.Days {
		weekday := ""
		if t, err := time.Parse(model.DayLayout, d.Date); err == nil {
			weekday = t.Weekday().String()[:3]
		}
		out.Days = append(out.Days, views.WeekDayData{Date: d.Date, Weekday: weekday, Stars: d.StarsEarned, Tasks: d.TasksCompleted})
	}
	return out
}

// LedgerLines adapts a ledger for display, oldest first.
func LedgerLines(h model.History) []views.LedgerLineData {
	out := make([]views.LedgerLineData, 0, len(h))
	for _, e := range h {
		out = append(out, views.LedgerLineData{
			When:        e.Date.Local().Format("Jan 2 15:04"),
			Type:        string(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
		})
	}
	return out
}

func WishLines(wishes []model.Wish, funds int) []views.WishLineData {
	out := make([]views.WishLineData, 0, len(wishes))
	for _, w := range wishes {
		line := views.WishLineData{Name: w.Name, Affordable: w.Affordable(funds)}
		if w.Price != nil {
			line.Price = *w.Price
		}
		if w.Description != nil {
			line.Description = *w.Description
		}
		out = append(out, line)
	}
	return out
}

const diaryPreviewLimit = 3

// DiaryLines renders up to limit entries in the given order.
func DiaryLines(entries []model.DiaryEntry, limit int) []views.DiaryLineData {
	entries = entries[:min(limit, len(entries))]
	out := make([]views.DiaryLineData, 0, len(entries))
	for _, e := range entries {
		line := views.DiaryLineData{Date: model.DayKey(e.Date.Local()), Content: e.Content}
		if e.Title != nil {
			line.Title = *e.Title
		}
		out = append(out, line)
	}
	return out
}

func (m Model) snapshot() *model.AppState {
	if m.Service == nil {
		return model.NewAppState()
	}
	return m.Service.Snapshot()
}

// syncBubbleData refreshes the widgets that mirror service state.
func (m *Model) syncBubbleData() {
	if m.Service == nil {
		return
	}
	st := m.Service.Snapshot()

	lines := LedgerLines(st.Wallet.History.Last(20))
	rows := make([]table.Row, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		rows = append(rows, table.Row{l.When, l.Type, strconv.Itoa(l.Amount), l.Description})
	}
	m.ledgerTable.SetRows(rows)

	if m.CurrentView == ViewStats {
		report := views.WeeklyReportMarkdown(ReportData(rewards.SummarizeWeek(st.WeeklyStats), st.Stars.Streak.Current))
		m.reportViewport.SetContent(views.RenderMarkdown(report))
	}
}

func (m Model) renderChecklistView(st *model.AppState) string {
	items := make([]views.ChecklistItemData, 0, len(st.Checklist))
	for _, t := range st.Checklist {
		items = append(items, views.ChecklistItemData{ID: t.ID, Text: t.Text, Stars: t.Stars, Completed: t.Completed})
	}
	return views.RenderChecklistPanel(views.ChecklistPanelData{
		Items:     items,
		Cursor:    m.Checklist.Cursor,
		InputView: m.addInput.View(),
		Adding:    m.Checklist.Adding,
		Done:      st.CompletedCount(),
		TasksLeft: max(0, rewards.QualifyingTasks-st.CompletedCount()),
	})
}

func (m Model) renderBoardView(st *model.AppState) string {
	cols := make([]views.BoardColumnData, 0, 3)
	for _, c := range model.Columns() {
		col := views.BoardColumnData{Name: string(c)}
		for _, card := range *st.Kanban.Cards(c) {
			col.Cards = append(col.Cards, views.BoardCardData{ID: card.ID, Text: card.Text})
		}
		cols = append(cols, col)
	}
	return views.RenderBoardPanel(views.BoardPanelData{
		Columns:     cols,
		ColumnIndex: m.Board.Column,
		CardIndex:   m.Board.Card,
		InputView:   m.addInput.View(),
		Adding:      m.Board.Adding,
		DoneStars:   model.KanbanDoneStars,
	})
}

func (m Model) renderMoneyView(st *model.AppState) string {
	next := m.Service.NextPayout()
	goalPct := st.Piggy.GoalProgress()
	hint := ""
	if q, err := m.Service.ExchangePreview(st.Stars.Total); err == nil {
		hint = fmt.Sprintf("exchange now: %d stars -> %d", q.Stars, q.Money)
	}
	return views.RenderMoneyPanel(views.MoneyPanelData{
		Wallet:        st.Wallet.Amount,
		Piggy:         st.Piggy.Amount,
		GoalName:      st.Piggy.Goal.Name,
		GoalAmount:    st.Piggy.Goal.Amount,
		GoalView:      m.goalProgress.ViewAs(goalPct),
		GoalPct:       int(goalPct * 100),
		PayoutView:    m.payoutProgress.ViewAs(next.Ratio()),
		Have:          next.Have,
		Need:          next.Need,
		StarsToMoney:  next.StarsToMoney,
		MoneyPerStars: next.MoneyPerStars,
		ExchangeHint:  hint,
		TableView:     m.ledgerTable.View(),
		Wishes:        WishLines(st.Wishlist, st.Wallet.Amount+st.Piggy.Amount),
	})
}

func (m Model) renderStatsView(st *model.AppState) string {
	var unlocked []string
	for _, r := range rewards.MiniRewards {
		if st.Stars.Claimed(r.Stars) {
			unlocked = append(unlocked, fmt.Sprintf("%s at %d stars", r.Title, r.Stars))
		}
	}
	return views.RenderStatsPanel(views.StatsPanelData{
		ReportView: m.reportViewport.View(),
		BestRun:    st.Stars.Streak.Best(),
		Runs:       len(st.Stars.Streak.History),
		Rules:      st.Rules,
		Unlocked:   unlocked,
		Diary:      DiaryLines(st.DiaryNewestFirst(), diaryPreviewLimit),
	})
}

// renderSidebar is the right pane: palette, the latest notification and
// the next payout at a glance.
func (m Model) renderSidebar(st *model.AppState) string {
	var parts []string
	if p := views.RenderCommandPalette(m.Palette.Active, m.Palette.Input); p != "" {
		parts = append(parts, p)
	}
	if m.Service != nil && m.CurrentView != ViewMoney {
		next := m.Service.NextPayout()
		parts = append(parts, fmt.Sprintf("next payout: %d/%d stars\n%s", next.Have, next.StarsToMoney, m.payoutProgress.ViewAs(next.Ratio())))
		parts = append(parts, fmt.Sprintf("wallet: %d | piggy: %d", st.Wallet.Amount, st.Piggy.Amount))
	}
	if n := m.renderNotificationsView(); n != "" {
		parts = append(parts, strings.TrimSpace(n))
	}
	return strings.Join(parts, "\n\n") + m.renderHelpIfVisible()
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}
