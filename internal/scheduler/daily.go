package scheduler

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// rolloverGrace keeps the rollover clear of the exact midnight instant.
const rolloverGrace = 5 * time.Second

// NextRollover is the event for the start of the day after now.
func NextRollover(now time.Time) Event {
	y, m, d := now.Date()
	at := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(rolloverGrace)
	day := model.DayKey(at)
	return Event{ID: "rollover-" + day, Kind: KindRollover, Day: day, TriggerAt: at}
}

// NextNudge is the next streak reminder at hour:00 local time, today when
// that is still ahead. A negative hour disables the nudge.
func NextNudge(now time.Time, hour int) (Event, bool) {
	if hour < 0 || hour > 23 {
		return Event{}, false
	}
	y, m, d := now.Date()
	at := time.Date(y, m, d, hour, 0, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(y, m, d+1, hour, 0, 0, 0, now.Location())
	}
	day := model.DayKey(at)
	return Event{ID: NudgeID(day), Kind: KindStreakNudge, Day: day, TriggerAt: at}, true
}

// NudgeID is the event ID of the streak nudge planned for day.
func NudgeID(day string) string {
	return "nudge-" + day
}

// ScheduleDaily queues the next rollover and the next nudge.
func ScheduleDaily(e *Engine, now time.Time, nudgeHour int) error {
	if err := e.Schedule(NextRollover(now)); err != nil {
		return err
	}
	if ev, ok := NextNudge(now, nudgeHour); ok {
		return e.Schedule(ev)
	}
	return nil
}

// Reschedule queues the follow-up of an event that just fired.
func Reschedule(e *Engine, fired Event, now time.Time, nudgeHour int) error {
	switch fired.Kind {
	case KindRollover:
		return e.Schedule(NextRollover(now))
	case KindStreakNudge:
		ev, ok := NextNudge(now, nudgeHour)
		if !ok {
			return nil
		}
		return e.Schedule(ev)
	default:
		return fmt.Errorf("scheduler: unknown event kind %q", fired.Kind)
	}
}
