// Package rewards owns the application state and every operation of the
// chore economy: stars, money, the piggy bank, streaks and the daily cycle.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/chorejar/internal/model"
)

// Clock returns the current time. Day keys are taken in its location.
type Clock func() time.Time

// Saver persists a committed state. *storage.Store implements it.
type Saver interface {
	Save(ctx context.Context, st *model.AppState) error
}

// Notifier receives celebration events after the change that caused them
// has been saved.
type Notifier interface {
	StreakBonus(days, amount int)
	RewardUnlocked(r MiniReward)
}

type Options struct {
	Clock    Clock
	Notifier Notifier
	Logger   *log.Logger
}

// Service serializes all reads and writes of one AppState.
type Service struct {
	mu       sync.Mutex
	state    *model.AppState
	saver    Saver
	clock    Clock
	notifier Notifier
	logger   *log.Logger

	hookMu sync.Mutex
	hooks  []func()
}

// NewService takes ownership of a copy of st. A nil st starts from defaults.
func NewService(st *model.AppState, saver Saver, opts Options) (*Service, error) {
	if saver == nil {
		return nil, errors.New("rewards: nil saver")
	}
	if st == nil {
		st = model.NewAppState()
	} else {
		st = st.Clone()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Service{
		state:    st,
		saver:    saver,
		clock:    opts.Clock,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() *model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Today is the current day key.
func (s *Service) Today() string {
	return model.DayKey(s.clock())
}

// OnChange registers fn to run after every committed change. Hooks must
// not block; a panicking hook is logged and skipped.
func (s *Service) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// txn is the working view of one mutation.
type txn struct {
	st    *model.AppState
	now   time.Time
	today string
	skip  bool
	after []func(Notifier)
}

// noop marks the mutation as having changed nothing, so no save happens.
func (t *txn) noop() {
	t.skip = true
}

func (t *txn) emit(fn func(Notifier)) {
	t.after = append(t.after, fn)
}

// mutate applies fn to the live state and saves it. An error from fn or
// from the save restores the state exactly as it was before the call.
func (s *Service) mutate(ctx context.Context, op string, fn func(*txn) error) error {
	s.mu.Lock()
	snapshot := s.state.Clone()
	now := s.clock()
	t := &txn{st: s.state, now: now, today: model.DayKey(now)}

	err := fn(t)
	if err == nil && !t.skip {
		if err = s.saver.Save(ctx, s.state); err != nil {
			s.logger.Error("save failed, change rolled back", "op", op, "err", err)
			err = fmt.Errorf("%w: %s: %w", ErrSaveFailed, op, err)
		}
	}
	if err != nil {
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if t.skip {
		return nil
	}
	s.logger.Debug("change committed", "op", op)
	s.flush(t.after)
	return nil
}

func (s *Service) flush(events []func(Notifier)) {
	if s.notifier != nil {
		for _, ev := range events {
			s.safely("notifier", func() { ev(s.notifier) })
		}
	}
	s.hookMu.Lock()
	hooks := append([]func(){}, s.hooks...)
	s.hookMu.Unlock()
	for _, h := range hooks {
		s.safely("change hook", h)
	}
}

func (s *Service) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("callback panicked", "callback", what, "panic", r)
		}
	}()
	fn()
}
