package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chorejar/internal/model"
)

var boardColumns = model.Columns()

func (m Model) adding() bool {
	return (m.CurrentView == ViewChecklist && m.Checklist.Adding) || (m.CurrentView == ViewBoard && m.Board.Adding)
}

func (m Model) startAdding() Model {
	m.addInput.SetValue("")
	m.addInput.Focus()
	switch m.CurrentView {
	case ViewChecklist:
		m.Checklist.Adding = true
		m.addInput.Placeholder = "new task, +N for stars"
	case ViewBoard:
		m.Board.Adding = true
		m.addInput.Placeholder = "new card"
	}
	return m
}

func (m Model) stopAdding() Model {
	m.Checklist.Adding = false
	m.Board.Adding = false
	m.addInput.SetValue("")
	m.addInput.Blur()
	return m
}

// handleAddKey feeds the quick-add input. Enter submits through the same
// parser the palette uses, so "+3 feed the cat" works here too.
func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m.stopAdding(), nil
	case "enter":
		text := m.addInput.Value()
		view := m.CurrentView
		m = m.stopAdding()
		verb := "add "
		if view == ViewBoard {
			verb = "card "
		}
		m.Palette.Input = verb + text
		return m.executePaletteCommand(), nil
	}
	if msg.Type == tea.KeyRunes {
		m.addInput.SetValue(m.addInput.Value() + string(msg.Runes))
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleChecklistKey(msg tea.KeyMsg) Model {
	st := m.snapshot()
	n := len(st.Checklist)
	switch msg.String() {
	case "j", "down":
		m.Checklist.Cursor = clampIndex(m.Checklist.Cursor+1, n)
	case "k", "up":
		m.Checklist.Cursor = clampIndex(m.Checklist.Cursor-1, n)
	case "a":
		return m.startAdding()
	case " ", "enter":
		if n == 0 {
			return m
		}
		task, err := m.Service.ToggleChecklistTask(m.ctx, st.Checklist[m.Checklist.Cursor].ID)
		if err != nil {
			return m.fail(err)
		}
		if task.Completed {
			m.Status = StatusBar{Text: fmt.Sprintf("done: %s (+%d stars)", task.Text, task.Stars)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("undone: %s", task.Text)}
		}
		return m.afterChange()
	case "x", "delete":
		if n == 0 {
			return m
		}
		task := st.Checklist[m.Checklist.Cursor]
		if err := m.Service.DeleteChecklistTask(m.ctx, task.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Text)}
		return m.afterChange()
	}
	return m
}

func (m Model) handleBoardKey(msg tea.KeyMsg) Model {
	st := m.snapshot()
	cards := *st.Kanban.Cards(boardColumns[m.Board.Column])
	switch msg.String() {
	case "h", "left":
		m.Board.Column = clampIndex(m.Board.Column-1, len(boardColumns))
		m.Board.Card = 0
	case "l", "right":
		m.Board.Column = clampIndex(m.Board.Column+1, len(boardColumns))
		m.Board.Card = 0
	case "j", "down":
		m.Board.Card = clampIndex(m.Board.Card+1, len(cards))
	case "k", "up":
		m.Board.Card = clampIndex(m.Board.Card-1, len(cards))
	case "a":
		return m.startAdding()
	case ">", "<":
		if len(cards) == 0 {
			return m
		}
		step := 1
		if msg.String() == "<" {
			step = -1
		}
		target := m.Board.Column + step
		if target < 0 || target >= len(boardColumns) {
			return m
		}
		card := cards[m.Board.Card]
		if _, err := m.Service.MoveKanbanTask(m.ctx, card.ID, boardColumns[target]); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s -> %s", card.Text, boardColumns[target])}
		if boardColumns[target] == model.ColumnDone {
			m.Status.Text += fmt.Sprintf(" (+%d stars)", model.KanbanDoneStars)
		}
		m.Board.Column = target
		m.Board.Card = len(*st.Kanban.Cards(boardColumns[target]))
		return m.afterChange()
	case "x", "delete":
		if len(cards) == 0 {
			return m
		}
		card := cards[m.Board.Card]
		if err := m.Service.DeleteKanbanTask(m.ctx, card.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted card: %s", card.Text)}
		return m.afterChange()
	}
	return m
}

func (m Model) handleMoneyKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "e":
		return m.openPalette("exchange ")
	case "d":
		return m.openPalette("deposit ")
	case "w":
		return m.openPalette("withdraw ")
	case "s":
		return m.openPalette("spend ")
	case "p":
		m.Palette.Input = "payout"
		return m.executePaletteCommand()
	case "j", "down", "k", "up":
		m.ledgerTable, _ = m.ledgerTable.Update(msg)
	}
	return m
}
