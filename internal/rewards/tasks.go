package rewards

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// MaxTaskStars bounds the stars a single checklist item can be worth.
const MaxTaskStars = 10

// nextID is a millisecond timestamp, bumped past every id already in use.
func (t *txn) nextID() int64 {
	return max(t.now.UnixMilli(), t.st.MaxTaskID()+1)
}

func (s *Service) AddChecklistTask(ctx context.Context, text string, stars int) (model.ChecklistTask, error) {
	clean, err := model.NormalizeText(text)
	if err != nil {
		return model.ChecklistTask{}, err
	}
	if stars < 0 || stars > MaxTaskStars {
		return model.ChecklistTask{}, fmt.Errorf("%w: %d is outside [0, %d]", model.ErrInvalidStars, stars, MaxTaskStars)
	}
	var task model.ChecklistTask
	err = s.mutate(ctx, "checklist_add", func(t *txn) error {
		task = model.ChecklistTask{ID: t.nextID(), Text: clean, Stars: stars}
		t.st.Checklist = append(t.st.Checklist, task)
		return nil
	})
	if err != nil {
		return model.ChecklistTask{}, err
	}
	return task, nil
}

// ToggleChecklistTask flips an item's completion. Completing it earns its
// stars; undoing it takes them back, clamped at zero.
func (s *Service) ToggleChecklistTask(ctx context.Context, id int64) (model.ChecklistTask, error) {
	var task model.ChecklistTask
	err := s.mutate(ctx, "checklist_toggle", func(t *txn) error {
		i := findChecklist(t.st, id)
		if i < 0 {
			return fmt.Errorf("%w: checklist item %d", ErrTaskNotFound, id)
		}
		item := &t.st.Checklist[i]
		item.Completed = !item.Completed
		task = *item
		switch {
		case item.Completed && item.Stars > 0:
			return t.earnStars(item.Stars, "Done: "+item.Text)
		case !item.Completed && item.Stars > 0:
			t.unearnStars(item.Stars)
		}
		t.saveDailyStats()
		return nil
	})
	if err != nil {
		return model.ChecklistTask{}, err
	}
	return task, nil
}

func (s *Service) DeleteChecklistTask(ctx context.Context, id int64) error {
	return s.mutate(ctx, "checklist_delete", func(t *txn) error {
		i := findChecklist(t.st, id)
		if i < 0 {
			return fmt.Errorf("%w: checklist item %d", ErrTaskNotFound, id)
		}
		t.st.Checklist = append(t.st.Checklist[:i], t.st.Checklist[i+1:]...)
		return nil
	})
}

func findChecklist(st *model.AppState, id int64) int {
	for i, task := range st.Checklist {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// AddKanbanTask puts a new card in the todo column.
func (s *Service) AddKanbanTask(ctx context.Context, text string) (model.KanbanTask, error) {
	clean, err := model.NormalizeText(text)
	if err != nil {
		return model.KanbanTask{}, err
	}
	var card model.KanbanTask
	err = s.mutate(ctx, "kanban_add", func(t *txn) error {
		card = model.KanbanTask{ID: t.nextID(), Text: clean}
		t.st.Kanban.Todo = append(t.st.Kanban.Todo, card)
		return nil
	})
	if err != nil {
		return model.KanbanTask{}, err
	}
	return card, nil
}

// MoveKanbanTask moves a card to the end of column to and returns the
// column it came from. Entering done from another column earns stars.
func (s *Service) MoveKanbanTask(ctx context.Context, id int64, to model.Column) (model.Column, error) {
	if !to.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumn, to)
	}
	var from model.Column
	err := s.mutate(ctx, "kanban_move", func(t *txn) error {
		col, i, ok := t.st.Kanban.Find(id)
		if !ok {
			return fmt.Errorf("%w: card %d", ErrTaskNotFound, id)
		}
		from = col
		if col == to {
			t.noop()
			return nil
		}
		src := t.st.Kanban.Cards(col)
		card := (*src)[i]
		*src = append((*src)[:i], (*src)[i+1:]...)
		dst := t.st.Kanban.Cards(to)
		*dst = append(*dst, card)
		if to == model.ColumnDone {
			return t.earnStars(model.KanbanDoneStars, "Finished: "+card.Text)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return from, nil
}

func (s *Service) DeleteKanbanTask(ctx context.Context, id int64) error {
	return s.mutate(ctx, "kanban_delete", func(t *txn) error {
		col, i, ok := t.st.Kanban.Find(id)
		if !ok {
			return fmt.Errorf("%w: card %d", ErrTaskNotFound, id)
		}
		cards := t.st.Kanban.Cards(col)
		*cards = append((*cards)[:i], (*cards)[i+1:]...)
		return nil
	})
}
