package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chorejar/internal/commands"
	"github.com/sandeepkv93/chorejar/internal/model"
	"github.com/sandeepkv93/chorejar/internal/rewards"
)

func (m Model) openPalette(prefill string) Model {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m = m.closePalette()
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers(&m))
	m = m.closePalette()
	if err != nil {
		return m.fail(err)
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m.afterChange()
}

// paletteHandlers binds every palette command to the service. View
// switches are applied to target.
func (m Model) paletteHandlers(target *Model) commands.Handlers {
	svc, ctx := m.Service, m.ctx
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := svc.AddChecklistTask(ctx, a.Text, a.Stars)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q (+%d stars)", task.Text, task.Stars)}, nil
		},
		Card: func(a commands.CardArgs) (commands.Result, error) {
			card, err := svc.AddKanbanTask(ctx, a.Text)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("card %q added to todo", card.Text)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task, err := svc.ToggleChecklistTask(ctx, a.ID)
			if errors.Is(err, rewards.ErrTaskNotFound) {
				if _, err := svc.MoveKanbanTask(ctx, a.ID, model.ColumnDone); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("card %d finished", a.ID)}, nil
			}
			if err != nil {
				return commands.Result{}, err
			}
			if task.Completed {
				return commands.Result{Message: fmt.Sprintf("done: %s", task.Text)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("undone: %s", task.Text)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			from, err := svc.MoveKanbanTask(ctx, a.ID, a.To)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("card %d moved %s -> %s", a.ID, from, a.To)}, nil
		},
		Exchange: func(a commands.AmountArgs) (commands.Result, error) {
			q, err := svc.ExchangeStars(ctx, a.Amount)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exchanged %d stars for %d, %d stars kept", q.Stars, q.Money, q.Leftover)}, nil
		},
		Deposit: func(a commands.AmountArgs) (commands.Result, error) {
			if err := svc.DepositPiggy(ctx, a.Amount, a.Note); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("put %d in the piggy bank", a.Amount)}, nil
		},
		Withdraw: func(a commands.AmountArgs) (commands.Result, error) {
			if err := svc.WithdrawPiggy(ctx, a.Amount, a.Note); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("took %d from the piggy bank", a.Amount)}, nil
		},
		Payout: func() (commands.Result, error) {
			paid, err := svc.PayOutPiggy(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("piggy bank paid out: %d", paid)}, nil
		},
		Goal: func(a commands.GoalArgs) (commands.Result, error) {
			if err := svc.SetPiggyGoal(ctx, a.Name, a.Amount); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("saving for %d", a.Amount)}, nil
		},
		Spend: func(a commands.AmountArgs) (commands.Result, error) {
			if err := svc.SpendWallet(ctx, a.Amount, a.Note); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("spent %d from the wallet", a.Amount)}, nil
		},
		Grant: func(a commands.AmountArgs) (commands.Result, error) {
			if err := svc.GrantStars(ctx, a.Amount, a.Note); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("granted %d stars", a.Amount)}, nil
		},
		Rate: func(a commands.RateArgs) (commands.Result, error) {
			err := svc.UpdateSettings(ctx, model.Settings{StarsToMoney: a.StarsToMoney, MoneyPerStars: a.MoneyPerStars})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("rate set: %d stars -> %d", a.StarsToMoney, a.MoneyPerStars)}, nil
		},
		Rule: func(a commands.RuleArgs) (commands.Result, error) {
			if a.Remove {
				if err := svc.DeleteRule(ctx, a.Index); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("rule %d removed", a.Index+1)}, nil
			}
			if err := svc.AddRule(ctx, a.Text); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "rule added"}, nil
		},
		Wish: func(a commands.WishArgs) (commands.Result, error) {
			if a.Remove {
				wishes := svc.Snapshot().Wishlist
				if a.Index < 0 || a.Index >= len(wishes) {
					return commands.Result{}, fmt.Errorf("%w: number %d", rewards.ErrWishNotFound, a.Index+1)
				}
				removed, err := svc.DeleteWish(ctx, wishes[a.Index].ID)
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("wish %q removed", removed.Name)}, nil
			}
			wish, err := svc.AddWish(ctx, a.Name, a.Price, a.Description)
			if err != nil {
				return commands.Result{}, err
			}
			if wish.Affordable(svc.SavedFunds()) {
				return commands.Result{Message: fmt.Sprintf("wished for %q, and you can already afford it", wish.Name)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("wished for %q", wish.Name)}, nil
		},
		Diary: func(a commands.DiaryArgs) (commands.Result, error) {
			if _, err := svc.AddDiaryEntry(ctx, a.Title, a.Content); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "diary entry saved"}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			v, ok := viewForSubject(a.Subject)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("nothing to show for %q", a.Subject)}
			}
			target.CurrentView = v
			return commands.Result{Message: fmt.Sprintf("showing %s", strings.ToLower(string(v)))}, nil
		},
	}
}

func viewForSubject(subject string) (View, bool) {
	switch subject {
	case "checklist", "tasks":
		return ViewChecklist, true
	case "board", "kanban":
		return ViewBoard, true
	case "money", "wallet", "piggy", "wishlist", "wishes":
		return ViewMoney, true
	case "stats", "week", "rules", "diary":
		return ViewStats, true
	default:
		return "", false
	}
}
