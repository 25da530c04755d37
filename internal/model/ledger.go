package model

import (
	"errors"
	"fmt"
	"time"
)

// HistoryLimit is the number of most-recent entries a ledger keeps.
const HistoryLimit = 100

var ErrInvalidEntryType = errors.New("model: invalid ledger entry type")

type EntryType string

const (
	EntryStars    EntryType = "stars"
	EntryStreak   EntryType = "streak"
	EntryAdd      EntryType = "add"
	EntryWithdraw EntryType = "withdraw"
	EntryExchange EntryType = "exchange"
	EntrySpend    EntryType = "spend"
	EntryGrant    EntryType = "grant"
)

func (t EntryType) IsValid() bool {
	switch t {
	case EntryStars, EntryStreak, EntryAdd, EntryWithdraw, EntryExchange, EntrySpend, EntryGrant:
		return true
	default:
		return false
	}
}

// LedgerEntry is one line of a stars, money, wallet or piggy history.
// Star entries carry no type and may be negative.
type LedgerEntry struct {
	Date        time.Time `json:"date"`
	Type        EntryType `json:"type,omitempty"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
}

func (e LedgerEntry) Validate() error {
	if e.Date.IsZero() {
		return errors.New("model: ledger entry date is required")
	}
	if e.Type != "" && !e.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, e.Type)
	}
	return nil
}

// History is a bounded ledger. Append keeps the last HistoryLimit entries.
type History []LedgerEntry

func (h History) Append(e LedgerEntry) History {
	h = append(h, e)
	if len(h) <= HistoryLimit {
		return h
	}
	out := make(History, HistoryLimit)
	copy(out, h[len(h)-HistoryLimit:])
	return out
}

// Count returns how many entries carry the given type.
func (h History) Count(t EntryType) int {
	n := 0
	for _, e := range h {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Last returns up to n entries, newest first.
func (h History) Last(n int) []LedgerEntry {
	if n <= 0 || len(h) == 0 {
		return nil
	}
	if n > len(h) {
		n = len(h)
	}
	out := make([]LedgerEntry, 0, n)
	for i := len(h) - 1; i >= len(h)-n; i-- {
		out = append(out, h[i])
	}
	return out
}

func (h History) clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

func (h History) truncated() History {
	if len(h) <= HistoryLimit {
		return h
	}
	return h[len(h)-HistoryLimit:].clone()
}
