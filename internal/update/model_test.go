package update

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chorejar/internal/model"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/scheduler"
	"github.com/sandeepkv93/chorejar/internal/storage"
)

// Wednesday morning.
var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

type harness struct {
	backend *storage.MemoryBackend
	svc     *rewards.Service
	events  *EventQueue
}

func newHarness(t *testing.T, fn func(st *model.AppState)) *harness {
	t.Helper()
	st := model.NewAppState()
	st.LastResetDate = model.DayKey(testNow)
	if fn != nil {
		fn(st)
	}
	backend := storage.NewMemoryBackend()
	store, err := storage.NewStore(backend, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	events := NewEventQueue()
	svc, err := rewards.NewService(st, store, rewards.Options{
		Clock:    func() time.Time { return testNow },
		Notifier: events,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &harness{backend: backend, svc: svc, events: events}
}

func (h *harness) model(opts Options) Model {
	opts.Events = h.events
	opts.Clock = func() time.Time { return testNow }
	return NewModel(h.svc, opts)
}

func withChecklist(tasks ...model.ChecklistTask) func(*model.AppState) {
	return func(st *model.AppState) { st.Checklist = tasks }
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func palette(t *testing.T, m Model, command string) Model {
	t.Helper()
	return send(t, m, runes("/"), runes(command), enter())
}

func TestNewModelDefaults(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	if m.CurrentView != ViewChecklist {
		t.Fatalf("expected default view %q, got %q", ViewChecklist, m.CurrentView)
	}
	if m.Keys.Quit != "q" || m.Keys.Stats != "4" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	m = send(t, m, runes("3"))
	if m.CurrentView != ViewMoney {
		t.Fatalf("expected money view, got %q", m.CurrentView)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentView != ViewStats {
		t.Fatalf("expected stats view after tab, got %q", m.CurrentView)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentView != ViewChecklist {
		t.Fatalf("expected tab to wrap to checklist, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	m = send(t, m, SwitchViewMsg{View: ViewBoard})
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected board view, got %q", m.CurrentView)
	}
	m = send(t, m, SwitchViewMsg{View: View("Calendar")})
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	m = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v %v", m.Status, m.LastError)
	}

	m = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	updated, cmd := m.Update(runes("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quitting flag and quit command")
	}
}

func TestChecklistToggleEarnsStars(t *testing.T) {
	h := newHarness(t, withChecklist(
		model.ChecklistTask{ID: 1, Text: "Made the bed", Stars: 1},
		model.ChecklistTask{ID: 2, Text: "Homework", Stars: 2},
	))
	m := h.model(Options{})
	m = send(t, m, runes("j"), tea.KeyMsg{Type: tea.KeySpace})

	st := h.svc.Snapshot()
	if !st.Checklist[1].Completed || st.Stars.Today != 2 || st.Stars.Total != 2 {
		t.Fatalf("unexpected state after toggle: %+v %+v", st.Checklist, st.Stars)
	}
	if !strings.Contains(m.Status.Text, "done: Homework") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if st := h.svc.Snapshot(); st.Checklist[1].Completed || st.Stars.Today != 0 {
		t.Fatalf("expected undo, got %+v", st.Stars)
	}
	if !strings.Contains(m.Status.Text, "undone") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestQuickAddWithKeyboard(t *testing.T) {
	h := newHarness(t, nil)
	m := h.model(Options{})
	m = send(t, m, runes("a"))
	if !m.Checklist.Adding {
		t.Fatal("expected add mode")
	}
	// "q" must be typed, not quit.
	m = send(t, m, runes("+3 quiz practice"), enter())
	if m.Checklist.Adding || m.Quitting {
		t.Fatalf("unexpected mode after submit: %+v quitting=%v", m.Checklist, m.Quitting)
	}
	st := h.svc.Snapshot()
	if len(st.Checklist) != 1 || st.Checklist[0].Text != "quiz practice" || st.Checklist[0].Stars != 3 {
		t.Fatalf("unexpected checklist: %+v", st.Checklist)
	}

	m = send(t, m, runes("a"), runes("abandoned"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Checklist.Adding || len(h.svc.Snapshot().Checklist) != 1 {
		t.Fatal("esc must cancel the add without saving")
	}
}

func TestChecklistDeleteClampsCursor(t *testing.T) {
	h := newHarness(t, withChecklist(
		model.ChecklistTask{ID: 1, Text: "a", Stars: 1},
		model.ChecklistTask{ID: 2, Text: "b", Stars: 1},
	))
	m := h.model(Options{})
	m = send(t, m, runes("j"), runes("x"))
	if len(h.svc.Snapshot().Checklist) != 1 || m.Checklist.Cursor != 0 {
		t.Fatalf("unexpected delete result: cursor=%d", m.Checklist.Cursor)
	}
}

func TestBoardMoveIntoDoneEarnsStars(t *testing.T) {
	h := newHarness(t, func(st *model.AppState) {
		st.Kanban.Todo = []model.KanbanTask{{ID: 7, Text: "Build a volcano"}}
	})
	m := h.model(Options{})
	m = send(t, m, runes("2"), runes(">"))
	if m.Board.Column != 1 {
		t.Fatalf("cursor must follow the card, column=%d", m.Board.Column)
	}
	m = send(t, m, runes(">"))

	st := h.svc.Snapshot()
	if len(st.Kanban.Done) != 1 || st.Stars.Total != model.KanbanDoneStars {
		t.Fatalf("unexpected board state: %+v stars=%d", st.Kanban, st.Stars.Total)
	}
	m = send(t, m, runes(">"))
	if st := h.svc.Snapshot(); st.Stars.Total != model.KanbanDoneStars {
		t.Fatal("moving past the last column must do nothing")
	}
}

func TestPaletteExchange(t *testing.T) {
	h := newHarness(t, func(st *model.AppState) { st.Stars.Total = 32 })
	m := h.model(Options{})
	m = palette(t, m, "exchange 32")
	if m.Status.IsError || !strings.Contains(m.Status.Text, "exchanged 30 stars for 400, 2 stars kept") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if st := h.svc.Snapshot(); st.Wallet.Amount != 400 || st.Stars.Total != 2 {
		t.Fatalf("unexpected state: wallet=%d stars=%d", st.Wallet.Amount, st.Stars.Total)
	}
	if m.Palette.Active {
		t.Fatal("palette must close after a command")
	}
}

func TestPaletteErrorsShowOnStatus(t *testing.T) {
	h := newHarness(t, func(st *model.AppState) { st.Stars.Total = 14 })
	m := h.model(Options{})

	m = palette(t, m, "exchange 14")
	if !m.Status.IsError || m.Status.Text != "not enough stars for one exchange bundle" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = palette(t, m, "withdraw 5")
	if !m.Status.IsError || m.Status.Text != "not enough saved for that" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = palette(t, m, "teleport home")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestPaletteWishAndDiary(t *testing.T) {
	h := newHarness(t, func(st *model.AppState) { st.Piggy.Amount = 2000 })
	m := h.model(Options{})

	m = palette(t, m, "wish +1500 bike | red one")
	if m.Status.IsError || !strings.Contains(m.Status.Text, "already afford") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = palette(t, m, "wish kite")
	m = palette(t, m, "show wishlist")
	if m.CurrentView != ViewMoney {
		t.Fatalf("expected money view, got %q", m.CurrentView)
	}
	if view := m.View(); !strings.Contains(view, "1. bike (1500)") || !strings.Contains(view, "2. kite") {
		t.Fatalf("wishlist missing from money view: %s", view)
	}

	m = palette(t, m, "wish rm 1")
	if got := h.svc.Snapshot().Wishlist; len(got) != 1 || got[0].Name != "kite" {
		t.Fatalf("unexpected wishlist %+v", got)
	}
	m = palette(t, m, "wish rm 5")
	if !m.Status.IsError {
		t.Fatalf("expected error for unknown wish, got %+v", m.Status)
	}

	m = palette(t, m, "diary Zoo | saw a tiger")
	m = palette(t, m, "show diary")
	if view := m.View(); !strings.Contains(view, "2026-03-04 Zoo: saw a tiger") {
		t.Fatalf("diary missing from stats view: %s", view)
	}
}

func TestTextInputsKeepCursorCommands(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	updated, cmd := m.Update(runes("/"))
	if cmd == nil {
		t.Fatal("opening the palette should start the cursor blink")
	}
	m = send(t, updated.(Model), runes("grant 3"))
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if cmd == nil {
		t.Fatal("moving the palette cursor should return the input's command")
	}
	if got := updated.(Model).Palette.Input; got != "grant 3" {
		t.Fatalf("unexpected palette input %q", got)
	}

	m = send(t, newHarness(t, nil).model(Options{}), runes("a"), runes("feed cat"))
	if _, cmd = m.Update(tea.KeyMsg{Type: tea.KeyHome}); cmd == nil {
		t.Fatal("moving the quick-add cursor should return the input's command")
	}
}

func TestPaletteShowSwitchesView(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	m = palette(t, m, "show piggy")
	if m.CurrentView != ViewMoney {
		t.Fatalf("expected money view, got %q", m.CurrentView)
	}
}

func TestSaveFailureShowsUserMessage(t *testing.T) {
	h := newHarness(t, withChecklist(model.ChecklistTask{ID: 1, Text: "Made the bed", Stars: 1}))
	h.backend.FailWrites(storage.ErrQuotaExceeded)
	m := h.model(Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})

	if !m.Status.IsError || m.Status.Text != storage.UserMessage(storage.ErrQuotaExceeded) {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if st := h.svc.Snapshot(); st.Checklist[0].Completed || st.Stars.Total != 0 {
		t.Fatal("failed save must leave state unchanged")
	}
}

type recordingDesktop struct {
	sent []Notification
}

func (r *recordingDesktop) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func TestRewardUnlockedBecomesNotification(t *testing.T) {
	h := newHarness(t, func(st *model.AppState) { st.Stars.Total = 4 })
	desk := &recordingDesktop{}
	m := h.model(Options{DesktopEnabled: true, Notifier: desk})
	m = palette(t, m, "grant 1 helped grandma")

	found := false
	for _, n := range m.Notifications {
		if strings.Contains(n.Title, "Cartoon pick") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected mini reward notification, got %+v", m.Notifications)
	}
	if len(desk.sent) != len(m.Notifications) {
		t.Fatalf("desktop notifier must mirror notifications: %d vs %d", len(desk.sent), len(m.Notifications))
	}
}

func TestNotificationsAreCapped(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	for i := 0; i < 45; i++ {
		m = send(t, m, SetStatusMsg{Text: fmt.Sprintf("status %d", i)})
	}
	if len(m.Notifications) != 40 || m.Notifications[39].Body != "status 44" {
		t.Fatalf("unexpected notifications: %d", len(m.Notifications))
	}
}

func TestInitWithSchedulerReturnsEventCmd(t *testing.T) {
	h := newHarness(t, nil)
	if cmd := h.model(Options{}).Init(); cmd != nil {
		t.Fatal("expected no command without a scheduler")
	}
	if cmd := h.model(Options{Scheduler: scheduler.NewEngine(4)}).Init(); cmd == nil {
		t.Fatal("expected a wait command with a scheduler")
	}
}

func TestScheduledRolloverRunsDailyReset(t *testing.T) {
	yesterday := model.PreviousDayKey(testNow)
	h := newHarness(t, func(st *model.AppState) {
		st.LastResetDate = yesterday
		for i := 1; i <= 4; i++ {
			st.Checklist = append(st.Checklist, model.ChecklistTask{ID: int64(i), Text: fmt.Sprintf("task %d", i), Stars: 1, Completed: true})
		}
	})
	engine := scheduler.NewEngine(4)
	m := h.model(Options{Scheduler: engine, NudgeHour: 18})

	updated, cmd := m.Update(ScheduledEventMsg{Event: scheduler.NextRollover(testNow.Add(-24 * time.Hour))})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected the wait command to be re-armed")
	}

	st := h.svc.Snapshot()
	if st.LastResetDate != model.DayKey(testNow) || st.Stars.Streak.Current != 1 || st.CompletedCount() != 0 {
		t.Fatalf("unexpected state after rollover: reset=%s streak=%d", st.LastResetDate, st.Stars.Streak.Current)
	}
	if !strings.Contains(m.Status.Text, "streak is now 1") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	// Tomorrow's rollover plus today's 18:00 nudge.
	if engine.Pending() != 2 || len(m.EventLog) != 1 {
		t.Fatalf("expected rollover and nudge scheduled, pending=%d log=%d", engine.Pending(), len(m.EventLog))
	}

	m = send(t, m, ScheduledEventMsg{Event: scheduler.NextRollover(testNow.Add(-24 * time.Hour))})
	if st := h.svc.Snapshot(); st.Stars.Streak.Current != 1 {
		t.Fatal("a second rollover on the same day must not change the streak")
	}
}

func TestSecuredStreakCancelsTodaysNudge(t *testing.T) {
	var tasks []model.ChecklistTask
	for i := 1; i <= 4; i++ {
		tasks = append(tasks, model.ChecklistTask{ID: int64(i), Text: fmt.Sprintf("task %d", i), Stars: 1, Completed: i < 4})
	}
	h := newHarness(t, withChecklist(tasks...))
	engine := scheduler.NewEngine(4)
	if err := scheduler.ScheduleDaily(engine, testNow, 18); err != nil {
		t.Fatalf("schedule daily: %v", err)
	}
	m := h.model(Options{Scheduler: engine, NudgeHour: 18})
	m.Checklist.Cursor = 3

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if engine.Pending() != 1 {
		t.Fatalf("expected only the rollover left, pending=%d", engine.Pending())
	}

	send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if engine.Pending() != 2 {
		t.Fatalf("undoing a task must bring the nudge back, pending=%d", engine.Pending())
	}
}

func TestStreakNudgeShowsTasksLeft(t *testing.T) {
	h := newHarness(t, withChecklist(model.ChecklistTask{ID: 1, Text: "a", Stars: 1, Completed: true}))
	m := h.model(Options{})
	ev, ok := scheduler.NextNudge(testNow, 18)
	if !ok {
		t.Fatal("expected nudge event")
	}
	m = send(t, m, ScheduledEventMsg{Event: ev})
	if !strings.Contains(m.Status.Text, "3 more task(s)") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestViewContainsCoreState(t *testing.T) {
	h := newHarness(t, func(st *model.AppState) {
		st.Checklist = []model.ChecklistTask{{ID: 1, Text: "Made the bed", Stars: 1}}
		st.Stars.Total = 40
		st.Wallet.Amount = 250
	})
	m := h.model(Options{})
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"checklist:", "Made the bed", "total 40", "wallet 250", "status: all good", "next payout: 10/15"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}

	m = send(t, m, runes("3"))
	if out := m.View(); !strings.Contains(out, "money:") || !strings.Contains(out, "wallet: 250") {
		t.Fatalf("expected money panel: %q", out)
	}
	m = send(t, m, runes("4"))
	if out := m.View(); !strings.Contains(out, "stats:") || !strings.Contains(out, "rules:") {
		t.Fatalf("expected stats panel: %q", out)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newHarness(t, nil).model(Options{})
	m = send(t, m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "help (checklist)") {
		t.Fatal("expected help panel")
	}
}
