package rewards

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/chorejar/internal/model"
)

// AddWish puts an item on the wishlist. price may be nil for an unpriced
// wish.
func (s *Service) AddWish(ctx context.Context, name string, price *int, description string) (model.Wish, error) {
	wish, err := model.NewWish(name, price, description)
	if err != nil {
		return model.Wish{}, err
	}
	err = s.mutate(ctx, "wish_add", func(t *txn) error {
		wish.ID = t.st.NextJournalID(t.now)
		wish.Date = t.now
		t.st.Wishlist = append(t.st.Wishlist, wish)
		return nil
	})
	if err != nil {
		return model.Wish{}, err
	}
	return wish, nil
}

func (s *Service) DeleteWish(ctx context.Context, id string) (model.Wish, error) {
	var removed model.Wish
	err := s.mutate(ctx, "wish_delete", func(t *txn) error {
		i := t.st.WishIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrWishNotFound, id)
		}
		removed = t.st.Wishlist[i]
		t.st.Wishlist = append(t.st.Wishlist[:i], t.st.Wishlist[i+1:]...)
		return nil
	})
	if err != nil {
		return model.Wish{}, err
	}
	return removed, nil
}

// AddDiaryEntry records a dated entry. The title is optional.
func (s *Service) AddDiaryEntry(ctx context.Context, title, content string) (model.DiaryEntry, error) {
	entry, err := model.NewDiaryEntry(title, content)
	if err != nil {
		return model.DiaryEntry{}, err
	}
	err = s.mutate(ctx, "diary_add", func(t *txn) error {
		entry.ID = t.st.NextJournalID(t.now)
		entry.Date = t.now
		t.st.Diary = append(t.st.Diary, entry)
		return nil
	})
	if err != nil {
		return model.DiaryEntry{}, err
	}
	return entry, nil
}

// SavedFunds is what the child could spend on a wish: wallet plus piggy bank.
func (s *Service) SavedFunds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Wallet.Amount + s.state.Piggy.Amount
}
