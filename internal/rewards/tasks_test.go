package rewards

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandeepkv93/chorejar/internal/model"
)

func TestAddChecklistTaskValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()

	if _, err := f.svc.AddChecklistTask(ctx, "   ", 1); !errors.Is(err, model.ErrTextRequired) {
		t.Fatalf("expected ErrTextRequired, got %v", err)
	}
	if _, err := f.svc.AddChecklistTask(ctx, strings.Repeat("я", model.MaxTextLength+1), 1); !errors.Is(err, model.ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
	if _, err := f.svc.AddChecklistTask(ctx, "water plants", MaxTaskStars+1); !errors.Is(err, model.ErrInvalidStars) {
		t.Fatalf("expected ErrInvalidStars, got %v", err)
	}

	task, err := f.svc.AddChecklistTask(ctx, "  water plants  ", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.Text != "water plants" || task.ID != baseTime.UnixMilli() {
		t.Fatalf("unexpected task %+v", task)
	}
	second, err := f.svc.AddChecklistTask(ctx, "feed fish", 1)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.ID <= task.ID {
		t.Fatalf("ids must increase: %d then %d", task.ID, second.ID)
	}
}

func TestToggleChecklistTaskEarnsAndReturnsStars(t *testing.T) {
	f := newFixture(t, stateWith(func(st *model.AppState) {
		st.Checklist = []model.ChecklistTask{{ID: 7, Text: "homework", Stars: 3}}
		st.LastResetDate = dayKey(0)
	}))
	ctx := t.Context()

	task, err := f.svc.ToggleChecklistTask(ctx, 7)
	if err != nil || !task.Completed {
		t.Fatalf("complete: %+v %v", task, err)
	}
	st := f.svc.Snapshot()
	if st.Stars.Today != 3 || st.Stars.Total != 3 || len(st.Stars.History) != 1 {
		t.Fatalf("unexpected stars %+v", st.Stars)
	}
	if st.Stars.History[0].Description != "Done: homework" || st.Stars.History[0].Type != "" {
		t.Fatalf("unexpected entry %+v", st.Stars.History[0])
	}

	task, err = f.svc.ToggleChecklistTask(ctx, 7)
	if err != nil || task.Completed {
		t.Fatalf("undo: %+v %v", task, err)
	}
	st = f.svc.Snapshot()
	if st.Stars.Today != 0 || st.Stars.Total != 0 || len(st.Stars.History) != 1 {
		t.Fatalf("undo did not take back stars: %+v", st.Stars)
	}
	if day, _ := st.WeeklyStats.Day(dayKey(0)); day.TasksCompleted != 0 {
		t.Fatalf("stats not updated on undo: %+v", day)
	}

	if _, err := f.svc.ToggleChecklistTask(ctx, 99); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUndoClampsAtZero(t *testing.T) {
	f := newFixture(t, stateWith(func(st *model.AppState) {
		st.Checklist = []model.ChecklistTask{{ID: 1, Text: "dishes", Stars: 5, Completed: true}}
		st.Stars.Today = 2
		st.Stars.Total = 1
	}))
	if _, err := f.svc.ToggleChecklistTask(t.Context(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	st := f.svc.Snapshot()
	if st.Stars.Today != 0 || st.Stars.Total != 0 {
		t.Fatalf("balances went negative or were not clamped: %+v", st.Stars)
	}
}

func TestKanbanMoveIntoDoneEarnsStars(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()

	card, err := f.svc.AddKanbanTask(ctx, "Science project")
	if err != nil {
		t.Fatalf("add card: %v", err)
	}
	from, err := f.svc.MoveKanbanTask(ctx, card.ID, model.ColumnDoing)
	if err != nil || from != model.ColumnTodo {
		t.Fatalf("move to doing: %v %v", from, err)
	}
	if f.svc.Snapshot().Stars.Total != 0 {
		t.Fatal("moving to doing must not earn stars")
	}

	if _, err := f.svc.MoveKanbanTask(ctx, card.ID, model.ColumnDone); err != nil {
		t.Fatalf("move to done: %v", err)
	}
	st := f.svc.Snapshot()
	if st.Stars.Total != model.KanbanDoneStars || len(st.Kanban.Done) != 1 || len(st.Kanban.Doing) != 0 {
		t.Fatalf("unexpected board %+v stars %d", st.Kanban, st.Stars.Total)
	}

	writes := f.backend.Writes()
	if _, err := f.svc.MoveKanbanTask(ctx, card.ID, model.ColumnDone); err != nil {
		t.Fatalf("move done to done: %v", err)
	}
	if f.backend.Writes() != writes || f.svc.Snapshot().Stars.Total != model.KanbanDoneStars {
		t.Fatal("same-column move must be a no-op")
	}

	if _, err := f.svc.MoveKanbanTask(ctx, card.ID, model.Column("later")); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
	if err := f.svc.DeleteKanbanTask(ctx, card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	if !f.svc.Snapshot().Kanban.Empty() {
		t.Fatal("card not deleted")
	}
	if err := f.svc.DeleteKanbanTask(ctx, card.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteChecklistTaskKeepsStars(t *testing.T) {
	f := newFixture(t, stateWith(func(st *model.AppState) {
		st.Checklist = []model.ChecklistTask{{ID: 1, Text: "bed", Stars: 2, Completed: true}, {ID: 2, Text: "bag"}}
		st.Stars.Total = 2
	}))
	if err := f.svc.DeleteChecklistTask(t.Context(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	st := f.svc.Snapshot()
	if len(st.Checklist) != 1 || st.Checklist[0].ID != 2 || st.Stars.Total != 2 {
		t.Fatalf("unexpected state: %+v total=%d", st.Checklist, st.Stars.Total)
	}
}

func TestUpdateSettingsAndRules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()

	if err := f.svc.UpdateSettings(ctx, model.Settings{StarsToMoney: 0, MoneyPerStars: 100}); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if err := f.svc.UpdateSettings(ctx, model.Settings{StarsToMoney: 10, MoneyPerStars: 100}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := f.svc.Snapshot().Settings; got != (model.Settings{StarsToMoney: 10, MoneyPerStars: 100}) {
		t.Fatalf("settings = %+v", got)
	}

	rules := len(f.svc.Snapshot().Rules)
	if err := f.svc.AddRule(ctx, "Shoes off inside"); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if err := f.svc.DeleteRule(ctx, 0); err != nil {
		t.Fatalf("delete rule: %v", err)
	}
	st := f.svc.Snapshot()
	if len(st.Rules) != rules || st.Rules[len(st.Rules)-1] != "Shoes off inside" {
		t.Fatalf("unexpected rules %v", st.Rules)
	}
	if err := f.svc.DeleteRule(ctx, len(st.Rules)); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
}
