package views

import (
	"fmt"
	"strings"
)

type ChecklistItemData struct {
	ID        int64
	Text      string
	Stars     int
	Completed bool
}

type ChecklistPanelData struct {
	Items     []ChecklistItemData
	Cursor    int
	InputView string
	Adding    bool
	Done      int
	TasksLeft int
}

type BoardCardData struct {
	ID   int64
	Text string
}

type BoardColumnData struct {
	Name  string
	Cards []BoardCardData
}

type BoardPanelData struct {
	Columns     []BoardColumnData
	ColumnIndex int
	CardIndex   int
	InputView   string
	Adding      bool
	DoneStars   int
}

type MoneyPanelData struct {
	Wallet        int
	Piggy         int
	GoalName      string
	GoalAmount    int
	GoalView      string
	GoalPct       int
	PayoutView    string
	Have          int
	Need          int
	StarsToMoney  int
	MoneyPerStars int
	ExchangeHint  string
	TableView     string
	Wishes        []WishLineData
}

type WishLineData struct {
	Name        string
	Price       int
	Description string
	Affordable  bool
}

type DiaryLineData struct {
	Date    string
	Title   string
	Content string
}

type StatsPanelData struct {
	ReportView string
	BestRun    int
	Runs       int
	Rules      []string
	Unlocked   []string
	Diary      []DiaryLineData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderChecklistPanel(data ChecklistPanelData) string {
	var b strings.Builder
	b.WriteString("checklist:\n")
	b.WriteString("actions: [j/k]move [space]done [a]add [x]delete\n")
	if data.Adding {
		b.WriteString(data.InputView + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("(no tasks yet, press a to add one)\n")
	}
	for i, item := range data.Items {
		cursor := " "
		if i == data.Cursor {
			cursor = cursorStyle.Render(">")
		}
		box := "[ ]"
		text := item.Text
		if item.Completed {
			box = "[x]"
			text = doneStyle.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, box, text, starBadge(item.Stars)))
	}
	b.WriteString(fmt.Sprintf("\ndone today: %d", data.Done))
	if data.TasksLeft > 0 {
		b.WriteString(fmt.Sprintf(" | %d more to keep the streak", data.TasksLeft))
	} else {
		b.WriteString(" | streak day secured 🔥")
	}
	return strings.TrimSpace(b.String())
}

func starBadge(n int) string {
	if n <= 0 {
		return ""
	}
	if n <= 5 {
		return strings.Repeat("⭐", n)
	}
	return fmt.Sprintf("⭐x%d", n)
}

func RenderBoardPanel(data BoardPanelData) string {
	var b strings.Builder
	b.WriteString("board:\n")
	b.WriteString("actions: [h/l]column [j/k]card [</>]move [a]add [x]delete\n")
	if data.Adding {
		b.WriteString(data.InputView + "\n")
	}
	for ci, col := range data.Columns {
		marker := " "
		if ci == data.ColumnIndex {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("\n%s%s (%d):\n", marker, strings.ToUpper(col.Name), len(col.Cards)))
		if len(col.Cards) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for i, card := range col.Cards {
			cursor := " "
			if ci == data.ColumnIndex && i == data.CardIndex {
				cursor = cursorStyle.Render(">")
			}
			b.WriteString(fmt.Sprintf("%s %s\n", cursor, card.Text))
		}
	}
	if data.DoneStars > 0 {
		b.WriteString(fmt.Sprintf("\nfinishing a card earns %s", starBadge(data.DoneStars)))
	}
	return strings.TrimSpace(b.String())
}

func RenderMoneyPanel(data MoneyPanelData) string {
	var b strings.Builder
	b.WriteString("money:\n")
	b.WriteString(fmt.Sprintf("wallet: %d\n", data.Wallet))
	b.WriteString(fmt.Sprintf("piggy bank: %d\n", data.Piggy))
	if data.GoalAmount > 0 {
		b.WriteString(fmt.Sprintf("goal: %s %d/%d\n", data.GoalName, data.Piggy, data.GoalAmount))
		b.WriteString(fmt.Sprintf("%s %d%%\n", data.GoalView, data.GoalPct))
	} else {
		b.WriteString("goal: (none, try /goal 5000 bike)\n")
	}
	b.WriteString(fmt.Sprintf("\nrate: %d stars -> %d\n", data.StarsToMoney, data.MoneyPerStars))
	b.WriteString(fmt.Sprintf("next payout: %d/%d stars, %d to go\n", data.Have, data.StarsToMoney, data.Need))
	if data.PayoutView != "" {
		b.WriteString(data.PayoutView + "\n")
	}
	if data.ExchangeHint != "" {
		b.WriteString(data.ExchangeHint + "\n")
	}
	b.WriteString("actions: /exchange N /deposit N /withdraw N /payout /spend N\n")
	b.WriteString("\nwishlist:\n")
	if len(data.Wishes) == 0 {
		b.WriteString("(empty, try /wish +1500 bike)\n")
	}
	for i, w := range data.Wishes {
		line := fmt.Sprintf("%d. %s", i+1, w.Name)
		if w.Price > 0 {
			line += fmt.Sprintf(" (%d)", w.Price)
		}
		if w.Affordable {
			line += " " + statusStyle.Render("affordable")
		}
		if w.Description != "" {
			line += " - " + w.Description
		}
		b.WriteString(line + "\n")
	}
	if data.TableView != "" {
		b.WriteString("\n" + data.TableView)
	}
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("stats:\n")
	if data.ReportView != "" {
		b.WriteString(data.ReportView + "\n")
	}
	if data.Runs > 0 {
		b.WriteString(fmt.Sprintf("\nbest streak: %d days (%d runs)\n", data.BestRun, data.Runs))
	}
	if len(data.Unlocked) > 0 {
		b.WriteString("\nunlocked:\n")
		for _, u := range data.Unlocked {
			b.WriteString("- " + u + "\n")
		}
	}
	b.WriteString("\nrules:\n")
	if len(data.Rules) == 0 {
		b.WriteString("(none)\n")
	}
	for i, rule := range data.Rules {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}
	if len(data.Diary) > 0 {
		b.WriteString("\ndiary:\n")
		for _, e := range data.Diary {
			head := e.Date
			if e.Title != "" {
				head += " " + e.Title
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", head, e.Content))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
