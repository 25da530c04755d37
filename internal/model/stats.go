package model

import (
	"sort"
	"time"
)

// DayLayout is the layout of day keys (device-local calendar dates).
const DayLayout = "2006-01-02"

// DayStatsLimit is how many days weeklyStats.days retains.
const DayStatsLimit = 14

type DayStat struct {
	Date           string `json:"date"`
	TasksCompleted int    `json:"tasksCompleted"`
	StarsEarned    int    `json:"starsEarned"`
}

type WeeklyStats struct {
	Days     []DayStat `json:"days"`
	LastWeek []DayStat `json:"lastWeek"`
	// CapturedOn is the Monday LastWeek was captured on. Empty in blobs
	// written before it existed.
	CapturedOn string `json:"capturedOn,omitempty"`
}

// Upsert replaces any entry for d.Date, keeps days newest first and
// truncates to DayStatsLimit.
func (w *WeeklyStats) Upsert(d DayStat) {
	days := make([]DayStat, 0, len(w.Days)+1)
	for _, existing := range w.Days {
		if existing.Date != d.Date {
			days = append(days, existing)
		}
	}
	days = append(days, d)
	sortDaysDesc(days)
	if len(days) > DayStatsLimit {
		days = days[:DayStatsLimit]
	}
	w.Days = days
}

func (w WeeklyStats) Day(date string) (DayStat, bool) {
	for _, d := range w.Days {
		if d.Date == date {
			return d, true
		}
	}
	return DayStat{}, false
}

// Window returns the days whose age relative to today lies in [minAge, maxAge).
func (w WeeklyStats) Window(today string, minAge, maxAge int) []DayStat {
	out := make([]DayStat, 0)
	for _, d := range w.Days {
		age, ok := DaysBetween(d.Date, today)
		if !ok {
			continue
		}
		if age >= minAge && age < maxAge {
			out = append(out, d)
		}
	}
	return out
}

func sortDaysDesc(days []DayStat) {
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date > days[j].Date })
}

// DayKey formats t as a day key in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// PreviousDayKey returns the day key of the calendar day before t.
func PreviousDayKey(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, t.Location()).Format(DayLayout)
}

func ValidDayKey(s string) bool {
	_, err := time.Parse(DayLayout, s)
	return err == nil
}

// DaysBetween returns the number of calendar days from one day key to another.
func DaysBetween(from, to string) (int, bool) {
	a, err := time.Parse(DayLayout, from)
	if err != nil {
		return 0, false
	}
	b, err := time.Parse(DayLayout, to)
	if err != nil {
		return 0, false
	}
	return int(b.Sub(a).Hours() / 24), true
}
