package rewards

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// UpdateSettings replaces the exchange rates. Both values must be positive.
func (s *Service) UpdateSettings(ctx context.Context, cfg model.Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, "settings", func(t *txn) error {
		t.st.Settings = cfg
		return nil
	})
}

func (s *Service) AddRule(ctx context.Context, text string) error {
	clean, err := model.NormalizeText(text)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "rule_add", func(t *txn) error {
		t.st.Rules = append(t.st.Rules, clean)
		return nil
	})
}

// DeleteRule removes the rule at index, counted from zero.
func (s *Service) DeleteRule(ctx context.Context, index int) error {
	return s.mutate(ctx, "rule_delete", func(t *txn) error {
		if index < 0 || index >= len(t.st.Rules) {
			return fmt.Errorf("%w: index %d", ErrRuleNotFound, index)
		}
		t.st.Rules = append(t.st.Rules[:index], t.st.Rules[index+1:]...)
		return nil
	})
}
