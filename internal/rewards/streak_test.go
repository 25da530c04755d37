package rewards

import (
	"fmt"
	"testing"

	"github.com/sandeepkv93/chorejar/internal/model"
)

func dayKey(i int) string {
	return model.DayKey(baseTime.AddDate(0, 0, i))
}

func TestEvaluateStreakBonusFiresOnlyAtThresholds(t *testing.T) {
	s := model.Streak{}
	fired := map[int]int{}
	for day := 1; day <= 40; day++ {
		out := EvaluateStreak(s, QualifyingTasks, dayKey(day), dayKey(day-1))
		if !out.Extended {
			t.Fatalf("day %d: qualifying day did not extend streak", day)
		}
		if out.Streak.Current != day {
			t.Fatalf("day %d: current = %d", day, out.Streak.Current)
		}
		if out.Bonus > 0 {
			fired[out.Streak.Current] = out.Bonus
		}
		s = out.Streak
	}
	want := map[int]int{3: 10, 7: 50, 14: 150, 30: 500}
	if fmt.Sprint(fired) != fmt.Sprint(want) {
		t.Fatalf("bonuses = %v, want %v", fired, want)
	}
}

func TestEvaluateStreakRestartPaysAgain(t *testing.T) {
	counts := []int{4, 5, 6, 1, 4, 4, 4, 4, 0, 9}
	s := model.Streak{}
	var bonusDays []int
	for i, c := range counts {
		out := EvaluateStreak(s, c, dayKey(i+1), dayKey(i))
		if out.Bonus > 0 {
			bonusDays = append(bonusDays, out.Streak.Current)
		}
		s = out.Streak
	}
	if fmt.Sprint(bonusDays) != "[3 3]" {
		t.Fatalf("expected a 3-day bonus on each climb, got %v", bonusDays)
	}
	if len(s.History) != 2 || s.History[0].Days != 3 || s.History[1].Days != 4 {
		t.Fatalf("unexpected run history %+v", s.History)
	}
}

func TestEvaluateStreakSameDayIsCreditedOnce(t *testing.T) {
	today := dayKey(1)
	first := EvaluateStreak(model.Streak{Current: 2}, 5, today, dayKey(0))
	if first.Streak.Current != 3 || first.Bonus != 10 {
		t.Fatalf("unexpected first evaluation %+v", first)
	}
	second := EvaluateStreak(first.Streak, 5, today, dayKey(0))
	if second.Extended || second.Bonus != 0 || second.Streak.Current != 3 {
		t.Fatalf("second evaluation on the same day changed the streak: %+v", second)
	}
}

func TestEvaluateStreakBreaks(t *testing.T) {
	last := dayKey(0)
	in := model.Streak{Current: 5, LastDate: &last, History: []model.StreakRun{{Days: 2, Date: "2026-01-01"}}}
	out := EvaluateStreak(in, 2, dayKey(1), dayKey(0))
	if !out.Broken || out.Streak.Current != 0 || out.Streak.LastDate != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(out.Streak.History) != 2 || out.Streak.History[1] != (model.StreakRun{Days: 5, Date: dayKey(0)}) {
		t.Fatalf("run not archived: %+v", out.Streak.History)
	}
	if len(in.History) != 1 {
		t.Fatal("EvaluateStreak mutated its input")
	}

	idle := EvaluateStreak(model.Streak{}, 0, dayKey(1), dayKey(0))
	if idle.Broken || len(idle.Streak.History) != 0 {
		t.Fatalf("an idle streak must not record a run: %+v", idle)
	}
}

func TestTasksToKeepStreak(t *testing.T) {
	f := newFixture(t, stateWith(func(st *model.AppState) {
		st.Checklist = []model.ChecklistTask{
			{ID: 1, Text: "a", Completed: true},
			{ID: 2, Text: "b"},
		}
	}))
	if got := f.svc.TasksToKeepStreak(); got != 3 {
		t.Fatalf("tasks left = %d, want 3", got)
	}
}
