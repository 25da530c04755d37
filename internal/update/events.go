package update

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/scheduler"
)

// EventQueue is the rewards.Notifier of the TUI. Celebrations are queued
// while a service call runs and drained into notifications afterwards.
type EventQueue struct {
	mu      sync.Mutex
	pending []Notification
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

func (q *EventQueue) StreakBonus(days, amount int) {
	q.push(Notification{
		Title: "Streak bonus",
		Body:  fmt.Sprintf("%d days in a row! +%d in the wallet", days, amount),
		Level: "success",
	})
}

func (q *EventQueue) RewardUnlocked(r rewards.MiniReward) {
	q.push(Notification{
		Title: r.Title,
		Body:  fmt.Sprintf("%s (%d stars)", r.Message, r.Stars),
		Level: "success",
	})
}

func (q *EventQueue) push(n Notification) {
	n.At = time.Now().UTC()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

// Drain returns and clears the queued notifications.
func (q *EventQueue) Drain() []Notification {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ScheduledEventMsg{Event: ev}
	}
}

func (m Model) onScheduledEvent(ev scheduler.Event) Model {
	m.EventLog = append(m.EventLog, ev)
	if len(m.EventLog) > 20 {
		m.EventLog = m.EventLog[len(m.EventLog)-20:]
	}

	switch ev.Kind {
	case scheduler.KindRollover:
		m = m.runRollover()
	case scheduler.KindStreakNudge:
		m = m.streakNudge()
	}

	if m.Scheduler != nil {
		if err := scheduler.Reschedule(m.Scheduler, ev, m.clock(), m.NudgeHour); err != nil {
			m.logger.Warn("reschedule failed", "event", ev.ID, "err", err)
		}
	}
	return m
}

func (m Model) runRollover() Model {
	res, err := m.Service.CheckDailyReset(m.ctx)
	if err != nil {
		return m.fail(err)
	}
	if _, err := m.Service.CheckWeeklyReset(m.ctx); err != nil {
		return m.fail(err)
	}
	m = m.afterChange()
	if !res.Ran {
		return m
	}
	m.logger.Info("day rolled over", "day", res.Today, "completed", res.Completed, "streak", res.Streak.Streak.Current)
	switch {
	case res.Streak.Extended:
		m.Status = StatusBar{Text: fmt.Sprintf("good morning! streak is now %d days", res.Streak.Streak.Current)}
	case res.Streak.Broken:
		m.Status = StatusBar{Text: "good morning! a new streak starts today"}
	default:
		m.Status = StatusBar{Text: "good morning! the checklist is fresh"}
	}
	m.notify("New day", m.Status.Text, "info")
	return m
}

// syncNudge drops today's nudge once the streak is secured and queues it
// again when a task is undone. Scheduling the same ID twice is a no-op move.
func (m Model) syncNudge() {
	if m.Scheduler == nil || m.Service == nil {
		return
	}
	if m.Service.TasksToKeepStreak() == 0 {
		m.Scheduler.Cancel(scheduler.NudgeID(m.Service.Today()))
		return
	}
	if ev, ok := scheduler.NextNudge(m.clock(), m.NudgeHour); ok {
		if err := m.Scheduler.Schedule(ev); err != nil {
			m.logger.Warn("schedule nudge failed", "err", err)
		}
	}
}

func (m Model) streakNudge() Model {
	left := m.Service.TasksToKeepStreak()
	if left == 0 {
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%d more task(s) today to keep the streak going", left)}
	m.notify("Streak", m.Status.Text, "warn")
	return m
}
