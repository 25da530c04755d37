package rewards

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/chorejar/internal/model"
)

func (t *txn) entry(typ model.EntryType, amount int, desc string) model.LedgerEntry {
	return model.LedgerEntry{Date: t.now, Type: typ, Amount: amount, Description: desc}
}

// recordStars appends a stars ledger line. Balances are the caller's job.
func (t *txn) recordStars(amount int, desc string) error {
	if amount == 0 {
		return fmt.Errorf("%w: star entry must not be zero", ErrInvalidAmount)
	}
	t.st.Stars.History = t.st.Stars.History.Append(t.entry("", amount, desc))
	return nil
}

// earnStars is the single star-earning path: balances, ledger, passive
// payout, mini rewards and today's stats all move together.
func (t *txn) earnStars(amount int, desc string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: earned stars must be positive, got %d", ErrInvalidAmount, amount)
	}
	t.st.Stars.Today += amount
	t.st.Stars.Total += amount
	if err := t.recordStars(amount, desc); err != nil {
		return err
	}
	if err := t.checkMoneyReward(); err != nil {
		return err
	}
	t.checkMiniRewards()
	t.saveDailyStats()
	return nil
}

// unearnStars takes back stars from an undone task, clamped at zero.
func (t *txn) unearnStars(amount int) {
	t.st.Stars.Today = max(0, t.st.Stars.Today-amount)
	t.st.Stars.Total = max(0, t.st.Stars.Total-amount)
}

func (t *txn) creditWallet(typ model.EntryType, amount int, desc string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: wallet credit must be positive, got %d", ErrInvalidAmount, amount)
	}
	t.st.Wallet.Amount += amount
	t.st.Wallet.History = t.st.Wallet.History.Append(t.entry(typ, amount, desc))
	return nil
}

func (t *txn) debitWallet(typ model.EntryType, amount int, desc string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: wallet debit must be positive, got %d", ErrInvalidAmount, amount)
	}
	if amount > t.st.Wallet.Amount {
		return fmt.Errorf("%w: wallet has %d, need %d", ErrInsufficientFunds, t.st.Wallet.Amount, amount)
	}
	t.st.Wallet.Amount -= amount
	t.st.Wallet.History = t.st.Wallet.History.Append(t.entry(typ, amount, desc))
	return nil
}

func (t *txn) recordMoney(typ model.EntryType, amount int, desc string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: money entry must be positive, got %d", ErrInvalidAmount, amount)
	}
	t.st.Money.History = t.st.Money.History.Append(t.entry(typ, amount, desc))
	return nil
}

func (t *txn) depositPiggy(amount int, desc string) error {
	if amount <= 0 || amount > model.MaxPiggyAmount {
		return fmt.Errorf("%w: deposit %d is outside [1, %d]", ErrInvalidAmount, amount, model.MaxPiggyAmount)
	}
	t.st.Piggy.Amount += amount
	t.st.Piggy.History = t.st.Piggy.History.Append(t.entry(model.EntryAdd, amount, desc))
	return nil
}

func (t *txn) withdrawPiggy(amount int, desc string) error {
	if amount <= 0 || amount > model.MaxPiggyAmount {
		return fmt.Errorf("%w: withdrawal %d is outside [1, %d]", ErrInvalidAmount, amount, model.MaxPiggyAmount)
	}
	if amount > t.st.Piggy.Amount {
		return fmt.Errorf("%w: piggy bank has %d, need %d", ErrInsufficientFunds, t.st.Piggy.Amount, amount)
	}
	t.st.Piggy.Amount -= amount
	t.st.Piggy.History = t.st.Piggy.History.Append(t.entry(model.EntryWithdraw, amount, desc))
	return nil
}

func orDefault(desc, fallback string) string {
	if d := strings.TrimSpace(desc); d != "" {
		return d
	}
	return fallback
}

// GrantStars adds stars on a parent's behalf.
func (s *Service) GrantStars(ctx context.Context, amount int, desc string) error {
	return s.mutate(ctx, "grant_stars", func(t *txn) error {
		return t.earnStars(amount, orDefault(desc, "Granted by a parent"))
	})
}

func (s *Service) DepositPiggy(ctx context.Context, amount int, desc string) error {
	return s.mutate(ctx, "piggy_deposit", func(t *txn) error {
		return t.depositPiggy(amount, orDefault(desc, fmt.Sprintf("Added %d", amount)))
	})
}

// WithdrawPiggy removes money from the piggy bank. Asking for more than the
// balance is rejected.
func (s *Service) WithdrawPiggy(ctx context.Context, amount int, desc string) error {
	return s.mutate(ctx, "piggy_withdraw", func(t *txn) error {
		return t.withdrawPiggy(amount, orDefault(desc, fmt.Sprintf("Took out %d", amount)))
	})
}

// PayOutPiggy empties the piggy bank and returns the amount paid out.
func (s *Service) PayOutPiggy(ctx context.Context) (int, error) {
	var paid int
	err := s.mutate(ctx, "piggy_payout", func(t *txn) error {
		paid = t.st.Piggy.Amount
		if paid <= 0 {
			return fmt.Errorf("%w: piggy bank is empty", ErrInsufficientFunds)
		}
		t.st.Piggy.Amount = 0
		t.st.Piggy.History = t.st.Piggy.History.Append(t.entry(model.EntryWithdraw, paid, "Payout"))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

// SetPiggyGoal replaces the savings goal. An empty name becomes "Goal".
func (s *Service) SetPiggyGoal(ctx context.Context, name string, amount int) error {
	name = orDefault(name, "Goal")
	if n := len([]rune(name)); n > model.MaxTextLength {
		return fmt.Errorf("%w: %d > %d", model.ErrTextTooLong, n, model.MaxTextLength)
	}
	if amount < 1 || amount > model.MaxGoalAmount {
		return fmt.Errorf("%w: goal %d is outside [1, %d]", ErrInvalidAmount, amount, model.MaxGoalAmount)
	}
	return s.mutate(ctx, "piggy_goal", func(t *txn) error {
		t.st.Piggy.Goal = model.Goal{Name: name, Amount: amount}
		return nil
	})
}

// CreditWallet adds money to the wallet directly, e.g. pocket money.
func (s *Service) CreditWallet(ctx context.Context, amount int, desc string) error {
	return s.mutate(ctx, "wallet_credit", func(t *txn) error {
		return t.creditWallet(model.EntryGrant, amount, orDefault(desc, "Wallet top-up"))
	})
}

// SpendWallet pays for something out of the wallet. Over-spending is rejected.
func (s *Service) SpendWallet(ctx context.Context, amount int, desc string) error {
	return s.mutate(ctx, "wallet_spend", func(t *txn) error {
		return t.debitWallet(model.EntrySpend, amount, orDefault(desc, "Purchase"))
	})
}
