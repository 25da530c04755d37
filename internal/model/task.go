package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTextLength bounds task text and rule text, in runes.
const MaxTextLength = 500

// KanbanDoneStars is the reward for moving a card into the done column.
const KanbanDoneStars = 2

var (
	ErrTextRequired  = errors.New("model: text is required")
	ErrTextTooLong   = errors.New("model: text is too long")
	ErrInvalidColumn = errors.New("model: invalid kanban column")
	ErrInvalidStars  = errors.New("model: invalid task stars")
)

type Column string

const (
	ColumnTodo  Column = "todo"
	ColumnDoing Column = "doing"
	ColumnDone  Column = "done"
)

func (c Column) IsValid() bool {
	switch c {
	case ColumnTodo, ColumnDoing, ColumnDone:
		return true
	default:
		return false
	}
}

func ParseColumn(raw string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumn, raw)
	}
	return c, nil
}

// Columns lists the board columns in display order.
func Columns() []Column {
	return []Column{ColumnTodo, ColumnDoing, ColumnDone}
}

type ChecklistTask struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Stars     int    `json:"stars"`
}

func (t ChecklistTask) Validate() error {
	if t.ID <= 0 {
		return errors.New("model: checklist task id is required")
	}
	if _, err := NormalizeText(t.Text); err != nil {
		return err
	}
	if t.Stars < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidStars, t.Stars)
	}
	return nil
}

type KanbanTask struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type Kanban struct {
	Todo  []KanbanTask `json:"todo"`
	Doing []KanbanTask `json:"doing"`
	Done  []KanbanTask `json:"done"`
}

// Cards returns a pointer to the slice backing column c.
func (k *Kanban) Cards(c Column) *[]KanbanTask {
	switch c {
	case ColumnTodo:
		return &k.Todo
	case ColumnDoing:
		return &k.Doing
	case ColumnDone:
		return &k.Done
	default:
		return nil
	}
}

// Find locates a card by id.
func (k *Kanban) Find(id int64) (Column, int, bool) {
	for _, c := range Columns() {
		for i, t := range *k.Cards(c) {
			if t.ID == id {
				return c, i, true
			}
		}
	}
	return "", -1, false
}

func (k Kanban) Empty() bool {
	return len(k.Todo) == 0 && len(k.Doing) == 0 && len(k.Done) == 0
}

// NormalizeText trims user-entered text and enforces MaxTextLength.
func NormalizeText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrTextRequired
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return "", fmt.Errorf("%w: %d > %d", ErrTextTooLong, n, MaxTextLength)
	}
	return text, nil
}
