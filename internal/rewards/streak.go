package rewards

import (
	"fmt"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// QualifyingTasks is how many checklist items a day needs to extend a streak.
const QualifyingTasks = 4

var streakBonuses = map[int]int{3: 10, 7: 50, 14: 150, 30: 500}

// StreakBonus returns the bonus paid when the streak reaches exactly days.
func StreakBonus(days int) (int, bool) {
	b, ok := streakBonuses[days]
	return b, ok
}

// StreakOutcome is the result of one rollover's streak evaluation.
type StreakOutcome struct {
	Streak   model.Streak
	Extended bool
	Broken   bool
	Bonus    int
}

// EvaluateStreak applies yesterday's completed count to s. A qualifying day
// extends the streak once per rollover day; anything else ends the run.
func EvaluateStreak(s model.Streak, completed int, today, yesterday string) StreakOutcome {
	next := model.Streak{
		Current:  s.Current,
		LastDate: s.LastDate,
		History:  append([]model.StreakRun(nil), s.History...),
	}
	out := StreakOutcome{}

	if completed >= QualifyingTasks {
		if s.LastDate != nil && *s.LastDate == today {
			out.Streak = next
			return out
		}
		next.Current++
		d := today
		next.LastDate = &d
		out.Extended = true
		if bonus, ok := StreakBonus(next.Current); ok {
			out.Bonus = bonus
		}
		out.Streak = next
		return out
	}

	if next.Current > 0 {
		next.History = append(next.History, model.StreakRun{Days: next.Current, Date: yesterday})
		out.Broken = true
	}
	next.Current = 0
	next.LastDate = nil
	out.Streak = next
	return out
}

func streakBonusText(days int) string {
	switch days {
	case 3:
		return "Bonus for 3 days in a row! 🔥"
	case 7:
		return "Bonus for a whole week in a row! 🔥🔥"
	case 14:
		return "Bonus for 2 weeks in a row! 🔥🔥🔥"
	case 30:
		return "Bonus for a month in a row! 🔥🔥🔥🔥"
	default:
		return fmt.Sprintf("Bonus for %d days in a row!", days)
	}
}

func (t *txn) payStreakBonus(days, amount int) error {
	desc := streakBonusText(days)
	if err := t.creditWallet(model.EntryStreak, amount, desc); err != nil {
		return err
	}
	if err := t.recordMoney(model.EntryStreak, amount, desc); err != nil {
		return err
	}
	t.emit(func(n Notifier) { n.StreakBonus(days, amount) })
	return nil
}

// TasksToKeepStreak is how many more checklist items today needs to count
// toward the streak.
func (s *Service) TasksToKeepStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(0, QualifyingTasks-s.state.CompletedCount())
}
