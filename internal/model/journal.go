package model

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MaxWishPrice bounds the price written on a wishlist item.
const MaxWishPrice = 10_000_000

var ErrContentRequired = errors.New("model: diary entry needs content")

// Wish is a wishlist item. Price and Description are optional and saved as
// null when unset.
type Wish struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       *int      `json:"price"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
}

// Affordable reports whether funds cover a priced wish.
func (w Wish) Affordable(funds int) bool {
	return w.Price != nil && *w.Price > 0 && funds >= *w.Price
}

type DiaryEntry struct {
	ID      string    `json:"id"`
	Title   *string   `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// NewWish validates the user-entered fields of a wishlist item. A nil price
// leaves the wish unpriced; an empty description is dropped.
func NewWish(name string, price *int, description string) (Wish, error) {
	clean, err := NormalizeText(name)
	if err != nil {
		return Wish{}, fmt.Errorf("wish name: %w", err)
	}
	w := Wish{Name: clean}
	if price != nil {
		if *price < 0 || *price > MaxWishPrice {
			return Wish{}, fmt.Errorf("%w: price %d is outside [0, %d]", ErrInvalidAmount, *price, MaxWishPrice)
		}
		if *price > 0 {
			p := *price
			w.Price = &p
		}
	}
	if strings.TrimSpace(description) != "" {
		desc, err := NormalizeText(description)
		if err != nil {
			return Wish{}, fmt.Errorf("wish description: %w", err)
		}
		w.Description = &desc
	}
	return w, nil
}

// NewDiaryEntry trims both fields. Content is required; an empty title is
// saved as null.
func NewDiaryEntry(title, content string) (DiaryEntry, error) {
	body := strings.TrimSpace(content)
	if body == "" {
		return DiaryEntry{}, ErrContentRequired
	}
	e := DiaryEntry{Content: body}
	if t := strings.TrimSpace(title); t != "" {
		e.Title = &t
	}
	return e, nil
}

// NextJournalID is a millisecond timestamp, bumped past every numeric id
// already used by a wish or diary entry.
func (s *AppState) NextJournalID(now time.Time) string {
	next := now.UnixMilli()
	bump := func(id string) {
		if v, err := strconv.ParseInt(id, 10, 64); err == nil && v >= next {
			next = v + 1
		}
	}
	for _, w := range s.Wishlist {
		bump(w.ID)
	}
	for _, e := range s.Diary {
		bump(e.ID)
	}
	return strconv.FormatInt(next, 10)
}

// WishIndex returns the position of the wish with id, or -1.
func (s *AppState) WishIndex(id string) int {
	for i, w := range s.Wishlist {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// DiaryNewestFirst returns the entries sorted by date, newest first.
func (s *AppState) DiaryNewestFirst() []DiaryEntry {
	out := slices.Clone(s.Diary)
	slices.SortStableFunc(out, func(a, b DiaryEntry) int {
		return b.Date.Compare(a.Date)
	})
	return out
}
