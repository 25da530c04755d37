package views

import (
	"fmt"
	"strings"
)

type WeekDayData struct {
	Date    string
	Weekday string
	Stars   int
	Tasks   int
}

type WeekReportData struct {
	Days          []WeekDayData
	Stars         int
	Tasks         int
	HasLastWeek   bool
	LastWeekStars int
	LastWeekTasks int
	Streak        int
}

// WeeklyReportMarkdown builds the weekly report as markdown, ready for
// RenderMarkdown.
func WeeklyReportMarkdown(data WeekReportData) string {
	var b strings.Builder
	b.WriteString("## This week\n\n")
	if len(data.Days) == 0 {
		b.WriteString("_No days recorded yet._\n")
	} else {
		maxStars := 0
		for _, d := range data.Days {
			maxStars = max(maxStars, d.Stars)
		}
		b.WriteString("| Day | Tasks | Stars | |\n|---|---:|---:|---|\n")
		for _, d := range data.Days {
			b.WriteString(fmt.Sprintf("| %s %s | %d | %d | %s |\n", d.Weekday, d.Date, d.Tasks, d.Stars, bar(d.Stars, maxStars, 12)))
		}
	}
	b.WriteString(fmt.Sprintf("\n**Total:** %d stars from %d tasks", data.Stars, data.Tasks))
	if data.Streak > 0 {
		b.WriteString(fmt.Sprintf(" · streak %d 🔥", data.Streak))
	}
	b.WriteString("\n")
	if data.HasLastWeek {
		diff := data.Stars - data.LastWeekStars
		trend := "same as"
		switch {
		case diff > 0:
			trend = fmt.Sprintf("%d more than", diff)
		case diff < 0:
			trend = fmt.Sprintf("%d fewer than", -diff)
		}
		b.WriteString(fmt.Sprintf("\nLast week: %d stars from %d tasks. This week is %s last week.\n",
			data.LastWeekStars, data.LastWeekTasks, trend))
	}
	return b.String()
}

// bar scales v against peak into a block bar of at most width cells.
func bar(v, peak, width int) string {
	if v <= 0 || peak <= 0 {
		return ""
	}
	n := v * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

type LedgerLineData struct {
	When        string
	Type        string
	Amount      int
	Description string
}

// LedgerMarkdown lists ledger lines newest first under title.
func LedgerMarkdown(title string, lines []LedgerLineData) string {
	var b strings.Builder
	b.WriteString("## " + title + "\n\n")
	if len(lines) == 0 {
		b.WriteString("_Empty._\n")
		return b.String()
	}
	b.WriteString("| When | Type | Amount | Note |\n|---|---|---:|---|\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		typ := l.Type
		if typ == "" {
			typ = "-"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %+d | %s |\n", l.When, typ, l.Amount, strings.ReplaceAll(l.Description, "|", "/")))
	}
	return b.String()
}
