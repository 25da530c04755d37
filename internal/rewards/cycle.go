package rewards

import (
	"context"
	"time"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// RolloverResult reports what a daily reset did. Ran is false when the
// reset already happened today.
type RolloverResult struct {
	Ran       bool
	Today     string
	Yesterday string
	Completed int
	Streak    StreakOutcome
}

// CheckDailyReset runs the once-a-day rollover: it evaluates the streak
// from yesterday's completed count, snapshots the day's stats, clears the
// checklist and today's stars, and stamps lastResetDate. All of it commits
// or none of it does.
func (s *Service) CheckDailyReset(ctx context.Context) (RolloverResult, error) {
	var res RolloverResult
	err := s.mutate(ctx, "daily_reset", func(t *txn) error {
		res = RolloverResult{Today: t.today}
		if t.st.LastResetDate == t.today {
			t.noop()
			return nil
		}
		res.Ran = true
		res.Yesterday = model.PreviousDayKey(t.now)
		res.Completed = yesterdayCompleted(t.st, res.Yesterday)

		res.Streak = EvaluateStreak(t.st.Stars.Streak, res.Completed, t.today, res.Yesterday)
		t.st.Stars.Streak = res.Streak.Streak
		if res.Streak.Bonus > 0 {
			if err := t.payStreakBonus(res.Streak.Streak.Current, res.Streak.Bonus); err != nil {
				return err
			}
		}

		t.saveDailyStats()
		for i := range t.st.Checklist {
			t.st.Checklist[i].Completed = false
		}
		t.st.Stars.Today = 0
		t.st.LastResetDate = t.today
		return nil
	})
	if err != nil {
		return RolloverResult{}, err
	}
	if res.Ran {
		s.logger.Info("daily reset",
			"today", res.Today,
			"yesterday_completed", res.Completed,
			"streak", res.Streak.Streak.Current,
			"bonus", res.Streak.Bonus)
	}
	return res, nil
}

// yesterdayCompleted reads yesterday's count from the live checklist when
// the live counters still belong to yesterday, then from the stats history.
func yesterdayCompleted(st *model.AppState, yesterday string) int {
	if st.LastResetDate == yesterday {
		return st.CompletedCount()
	}
	if d, ok := st.WeeklyStats.Day(yesterday); ok {
		return d.TasksCompleted
	}
	return 0
}

// saveDailyStats records the live counters under the day they belong to.
func (t *txn) saveDailyStats() {
	date := t.st.LastResetDate
	if date == "" {
		date = t.today
	}
	t.st.WeeklyStats.Upsert(model.DayStat{
		Date:           date,
		TasksCompleted: t.st.CompletedCount(),
		StarsEarned:    t.st.Stars.Today,
	})
}

// SaveDailyStats upserts the current day's stats entry.
func (s *Service) SaveDailyStats(ctx context.Context) error {
	return s.mutate(ctx, "daily_stats", func(t *txn) error {
		t.saveDailyStats()
		return nil
	})
}

// CheckWeeklyReset captures the days of age [7,14) into lastWeek on a
// Monday. Once lastWeek holds a snapshot it is kept, and a Monday with no
// days in that window captures nothing. It returns true when a snapshot was
// taken.
func (s *Service) CheckWeeklyReset(ctx context.Context) (bool, error) {
	captured := false
	err := s.mutate(ctx, "weekly_reset", func(t *txn) error {
		ws := &t.st.WeeklyStats
		if t.now.Weekday() != time.Monday || len(ws.LastWeek) > 0 {
			t.noop()
			return nil
		}
		window := ws.Window(t.today, 7, 14)
		if len(window) == 0 {
			t.noop()
			return nil
		}
		ws.LastWeek = window
		ws.CapturedOn = t.today
		captured = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if captured {
		s.logger.Info("weekly snapshot captured", "monday", s.Today())
	}
	return captured, nil
}

// StartupResult summarizes the checks run when the app starts.
type StartupResult struct {
	Rollover       RolloverResult
	WeeklyCaptured bool
	Seeded         bool
}

// Startup runs the daily reset, the weekly reset and default seeding in
// that order.
func (s *Service) Startup(ctx context.Context) (StartupResult, error) {
	var res StartupResult
	var err error
	if res.Rollover, err = s.CheckDailyReset(ctx); err != nil {
		return res, err
	}
	if res.WeeklyCaptured, err = s.CheckWeeklyReset(ctx); err != nil {
		return res, err
	}
	if res.Seeded, err = s.SeedDefaults(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// SeedDefaults fills an empty checklist and an empty board with starter
// tasks.
func (s *Service) SeedDefaults(ctx context.Context) (bool, error) {
	seeded := false
	err := s.mutate(ctx, "seed_defaults", func(t *txn) error {
		if len(t.st.Checklist) == 0 {
			for _, d := range model.DefaultChecklist {
				t.st.Checklist = append(t.st.Checklist, model.ChecklistTask{
					ID:    t.nextID(),
					Text:  d.Text,
					Stars: d.Stars,
				})
			}
			seeded = true
		}
		if t.st.Kanban.Empty() {
			t.st.Kanban.Todo = append(t.st.Kanban.Todo, model.KanbanTask{ID: t.nextID(), Text: model.DefaultBoardCard})
			seeded = true
		}
		if !seeded {
			t.noop()
		}
		return nil
	})
	return seeded, err
}

// WeekSummary compares the last seven recorded days with the captured
// previous week.
type WeekSummary struct {
	Days          []model.DayStat
	Stars         int
	Tasks         int
	HasLastWeek   bool
	LastWeekStars int
	LastWeekTasks int
}

// Diff is this week's stars minus last week's.
func (w WeekSummary) Diff() int {
	return w.Stars - w.LastWeekStars
}

// SummarizeWeek builds a WeekSummary. Days are returned oldest first.
func SummarizeWeek(ws model.WeeklyStats) WeekSummary {
	n := min(7, len(ws.Days))
	out := WeekSummary{Days: make([]model.DayStat, 0, n)}
	for i := n - 1; i >= 0; i-- {
		d := ws.Days[i]
		out.Days = append(out.Days, d)
		out.Stars += d.StarsEarned
		out.Tasks += d.TasksCompleted
	}
	if len(ws.LastWeek) > 0 {
		out.HasLastWeek = true
		for _, d := range ws.LastWeek {
			out.LastWeekStars += d.StarsEarned
			out.LastWeekTasks += d.TasksCompleted
		}
	}
	return out
}

func (s *Service) WeeklySummary() WeekSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SummarizeWeek(s.state.WeeklyStats)
}
