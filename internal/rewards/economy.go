package rewards

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// MiniReward is a one-time treat unlocked by reaching a star total.
type MiniReward struct {
	Stars   int    `json:"stars"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var MiniRewards = []MiniReward{
	{Stars: 5, Title: "🎬 Cartoon pick!", Message: "You get to choose the next cartoon!"},
	{Stars: 10, Title: "🎁 Small surprise", Message: "Great work! You earned a small surprise!"},
	{Stars: 25, Title: "🌟 Great job!", Message: "You are a star. Keep it up!"},
}

// checkMoneyReward pays the wallet for every full bundle of earned stars
// not yet paid for. Paid bundles are counted from "stars" entries in the
// money ledger, so the count shrinks when old entries fall off the ledger
// and exchanges lower the total without touching it.
func (t *txn) checkMoneyReward() error {
	cfg := t.st.Settings
	full := t.st.Stars.Total / cfg.StarsToMoney
	paid := t.st.Money.History.Count(model.EntryStars)
	if full <= paid {
		return nil
	}
	pay := (full - paid) * cfg.MoneyPerStars
	desc := fmt.Sprintf("Reward for %d stars", cfg.StarsToMoney)
	if err := t.creditWallet(model.EntryStars, pay, desc); err != nil {
		return err
	}
	if err := t.recordMoney(model.EntryStars, pay, desc); err != nil {
		return err
	}
	t.st.Money.Total += pay
	return nil
}

func (t *txn) checkMiniRewards() {
	for _, r := range MiniRewards {
		if t.st.Stars.Total < r.Stars || t.st.Stars.Claimed(r.Stars) {
			continue
		}
		t.st.Stars.ClaimedRewards = append(t.st.Stars.ClaimedRewards, r.Stars)
		reward := r
		t.emit(func(n Notifier) { n.RewardUnlocked(reward) })
	}
}

// ExchangeQuote describes a star exchange. Leftover stars are the part of
// the request that does not fill a whole bundle and stays unspent.
type ExchangeQuote struct {
	Requested int `json:"requested"`
	Bundles   int `json:"bundles"`
	Stars     int `json:"stars"`
	Money     int `json:"money"`
	Leftover  int `json:"leftover"`
}

func quote(st *model.AppState, n int) (ExchangeQuote, error) {
	q := ExchangeQuote{Requested: n}
	if n <= 0 {
		return q, fmt.Errorf("%w: exchange amount must be positive, got %d", ErrInvalidAmount, n)
	}
	if n > st.Stars.Total {
		return q, fmt.Errorf("%w: have %d stars, asked for %d", ErrInsufficientFunds, st.Stars.Total, n)
	}
	cfg := st.Settings
	q.Bundles = n / cfg.StarsToMoney
	q.Stars = q.Bundles * cfg.StarsToMoney
	q.Money = q.Bundles * cfg.MoneyPerStars
	q.Leftover = n - q.Stars
	if q.Bundles == 0 {
		return q, fmt.Errorf("%w: need at least %d stars", ErrBelowOneBundle, cfg.StarsToMoney)
	}
	return q, nil
}

// ExchangePreview reports what ExchangeStars(n) would do without doing it.
func (s *Service) ExchangePreview(n int) (ExchangeQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return quote(s.state, n)
}

// ExchangeStars converts whole bundles out of n stars into wallet money.
func (s *Service) ExchangeStars(ctx context.Context, n int) (ExchangeQuote, error) {
	var q ExchangeQuote
	err := s.mutate(ctx, "exchange", func(t *txn) error {
		var err error
		if q, err = quote(t.st, n); err != nil {
			return err
		}
		t.st.Stars.Total = max(0, t.st.Stars.Total-q.Stars)
		if err := t.recordStars(-q.Stars, fmt.Sprintf("Exchanged %d ⭐ for %d", q.Stars, q.Money)); err != nil {
			return err
		}
		return t.creditWallet(model.EntryExchange, q.Money, fmt.Sprintf("Exchange of %d ⭐ for %d", q.Stars, q.Money))
	})
	if err != nil {
		return q, err
	}
	s.logger.Info("stars exchanged", "stars", q.Stars, "money", q.Money)
	return q, nil
}

// PayoutProgress is the distance to the next passive wallet payout.
type PayoutProgress struct {
	StarsToMoney  int `json:"starsToMoney"`
	MoneyPerStars int `json:"moneyPerStars"`
	Have          int `json:"have"`
	Need          int `json:"need"`
}

func (p PayoutProgress) Ratio() float64 {
	if p.StarsToMoney <= 0 {
		return 0
	}
	return float64(p.Have) / float64(p.StarsToMoney)
}

func (s *Service) NextPayout() PayoutProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.state.Settings
	have := s.state.Stars.Total % cfg.StarsToMoney
	return PayoutProgress{
		StarsToMoney:  cfg.StarsToMoney,
		MoneyPerStars: cfg.MoneyPerStars,
		Have:          have,
		Need:          cfg.StarsToMoney - have,
	}
}
