package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	DefaultStarsToMoney  = 15
	DefaultMoneyPerStars = 200
)

var (
	ErrInvalidSettings = errors.New("model: invalid settings")
	ErrNegativeBalance = errors.New("model: negative balance")
)

type StreakRun struct {
	Days int    `json:"days"`
	Date string `json:"date"`
}

type Streak struct {
	Current int `json:"current"`
	// LastDate is the day key the streak was last credited on, nil when idle.
	LastDate *string     `json:"lastDate"`
	History  []StreakRun `json:"history"`
}

// Best is the longest run, the current one included.
func (s Streak) Best() int {
	best := s.Current
	for _, run := range s.History {
		best = max(best, run.Days)
	}
	return best
}

type Stars struct {
	Today          int     `json:"today"`
	Total          int     `json:"total"`
	History        History `json:"history"`
	Streak         Streak  `json:"streak"`
	ClaimedRewards []int   `json:"claimedRewards"`
}

func (s Stars) Claimed(threshold int) bool {
	for _, c := range s.ClaimedRewards {
		if c == threshold {
			return true
		}
	}
	return false
}

type Money struct {
	Total   int     `json:"total"`
	History History `json:"history"`
}

type Wallet struct {
	Amount  int     `json:"amount"`
	History History `json:"history"`
}

type Goal struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type Piggy struct {
	Amount  int     `json:"amount"`
	Goal    Goal    `json:"goal"`
	History History `json:"history"`
}

// GoalProgress returns the saved share of the goal in [0,1], or 0 without a goal.
func (p Piggy) GoalProgress() float64 {
	if p.Goal.Amount <= 0 {
		return 0
	}
	ratio := float64(p.Amount) / float64(p.Goal.Amount)
	if ratio > 1 {
		return 1
	}
	return ratio
}

type Settings struct {
	StarsToMoney  int `json:"starsToMoney"`
	MoneyPerStars int `json:"moneyPerStars"`
}

func DefaultSettings() Settings {
	return Settings{StarsToMoney: DefaultStarsToMoney, MoneyPerStars: DefaultMoneyPerStars}
}

func (s Settings) Validate() error {
	if s.StarsToMoney <= 0 {
		return fmt.Errorf("%w: starsToMoney must be > 0, got %d", ErrInvalidSettings, s.StarsToMoney)
	}
	if s.MoneyPerStars <= 0 {
		return fmt.Errorf("%w: moneyPerStars must be > 0, got %d", ErrInvalidSettings, s.MoneyPerStars)
	}
	return nil
}

// AppState is the whole persisted document. Top-level fields this build
// does not know about are carried through load and save untouched.
type AppState struct {
	Checklist     []ChecklistTask `json:"checklist"`
	Kanban        Kanban          `json:"kanban"`
	Stars         Stars           `json:"stars"`
	Money         Money           `json:"money"`
	Wallet        Wallet          `json:"wallet"`
	Piggy         Piggy           `json:"piggy"`
	Rules         []string        `json:"rules"`
	Wishlist      []Wish          `json:"wishlist"`
	Diary         []DiaryEntry    `json:"diary"`
	Settings      Settings        `json:"settings"`
	WeeklyStats   WeeklyStats     `json:"weeklyStats"`
	LastResetDate string          `json:"lastResetDate,omitempty"`

	extra map[string]json.RawMessage
}

var knownFields = map[string]struct{}{
	"checklist":     {},
	"kanban":        {},
	"stars":         {},
	"money":         {},
	"wallet":        {},
	"piggy":         {},
	"rules":         {},
	"wishlist":      {},
	"diary":         {},
	"settings":      {},
	"weeklyStats":   {},
	"lastResetDate": {},
}

type DefaultTask struct {
	Text  string
	Stars int
}

// DefaultChecklist is seeded into an empty checklist on first start.
var DefaultChecklist = []DefaultTask{
	{Text: "Got up and woke up", Stars: 1},
	{Text: "Made the bed", Stars: 1},
	{Text: "Packed the school bag", Stars: 1},
	{Text: "Did the homework app", Stars: 2},
	{Text: "Tidied the room (5 min)", Stars: 1},
}

// DefaultBoardCard is seeded into an empty board on first start.
const DefaultBoardCard = "Homework app"

func DefaultRules() []string {
	return []string{
		"📱 Phone until 21:00",
		"🛏 Sleep beats screens",
		"🌸 Mistakes are okay",
		"❤️ Parents are always near",
	}
}

// NewAppState returns the structural defaults a fresh install starts from.
func NewAppState() *AppState {
	st := &AppState{
		Rules:    DefaultRules(),
		Settings: DefaultSettings(),
	}
	st.Normalize()
	return st
}

// Decode merges a persisted blob over the structural defaults and normalizes
// the result.
func Decode(raw []byte) (*AppState, error) {
	st := NewAppState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, err
	}
	st.Normalize()
	return st, nil
}

func (s *AppState) UnmarshalJSON(data []byte) error {
	type plain AppState
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("model: state must be a JSON object")
	}
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	s.extra = nil
	for k, v := range fields {
		if _, ok := knownFields[k]; ok {
			continue
		}
		if s.extra == nil {
			s.extra = make(map[string]json.RawMessage)
		}
		s.extra[k] = v
	}
	return nil
}

func (s AppState) MarshalJSON() ([]byte, error) {
	type plain AppState
	known, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	if len(s.extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(knownFields)+len(s.extra))
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// ExtraFields lists the preserved top-level keys this build does not model.
func (s *AppState) ExtraFields() []string {
	out := make([]string, 0, len(s.extra))
	for k := range s.extra {
		out = append(out, k)
	}
	return out
}

// Normalize repairs a decoded state: missing collections become empty,
// balances are clamped at zero, bad settings fall back to defaults and
// bounded lists are truncated.
func (s *AppState) Normalize() {
	if s.Checklist == nil {
		s.Checklist = []ChecklistTask{}
	}
	for i := range s.Checklist {
		if s.Checklist[i].Stars < 0 {
			s.Checklist[i].Stars = 0
		}
	}
	for _, c := range Columns() {
		if cards := s.Kanban.Cards(c); *cards == nil {
			*cards = []KanbanTask{}
		}
	}

	s.Stars.Today = clampZero(s.Stars.Today)
	s.Stars.Total = clampZero(s.Stars.Total)
	s.Stars.History = normalizeHistory(s.Stars.History)
	if s.Stars.ClaimedRewards == nil {
		s.Stars.ClaimedRewards = []int{}
	}
	s.Stars.Streak.Current = clampZero(s.Stars.Streak.Current)
	if s.Stars.Streak.LastDate != nil && *s.Stars.Streak.LastDate == "" {
		s.Stars.Streak.LastDate = nil
	}
	if s.Stars.Streak.History == nil {
		s.Stars.Streak.History = []StreakRun{}
	}

	s.Money.Total = clampZero(s.Money.Total)
	s.Money.History = normalizeHistory(s.Money.History)
	s.Wallet.Amount = clampZero(s.Wallet.Amount)
	s.Wallet.History = normalizeHistory(s.Wallet.History)
	s.Piggy.Amount = clampZero(s.Piggy.Amount)
	s.Piggy.Goal.Amount = clampZero(s.Piggy.Goal.Amount)
	s.Piggy.History = normalizeHistory(s.Piggy.History)

	if s.Rules == nil {
		s.Rules = []string{}
	}
	if s.Wishlist == nil {
		s.Wishlist = []Wish{}
	}
	if s.Diary == nil {
		s.Diary = []DiaryEntry{}
	}
	if s.Settings.StarsToMoney <= 0 {
		s.Settings.StarsToMoney = DefaultStarsToMoney
	}
	if s.Settings.MoneyPerStars <= 0 {
		s.Settings.MoneyPerStars = DefaultMoneyPerStars
	}

	if s.WeeklyStats.Days == nil {
		s.WeeklyStats.Days = []DayStat{}
	}
	sortDaysDesc(s.WeeklyStats.Days)
	if len(s.WeeklyStats.Days) > DayStatsLimit {
		s.WeeklyStats.Days = s.WeeklyStats.Days[:DayStatsLimit]
	}
	if s.WeeklyStats.LastWeek == nil {
		s.WeeklyStats.LastWeek = []DayStat{}
	}
}

// Validate checks the invariants every saved state must hold.
func (s *AppState) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	balances := []struct {
		name  string
		value int
	}{
		{"stars.today", s.Stars.Today},
		{"stars.total", s.Stars.Total},
		{"money.total", s.Money.Total},
		{"wallet.amount", s.Wallet.Amount},
		{"piggy.amount", s.Piggy.Amount},
	}
	for _, b := range balances {
		if b.value < 0 {
			return fmt.Errorf("%w: %s = %d", ErrNegativeBalance, b.name, b.value)
		}
	}
	if s.Stars.Streak.Current < 0 {
		return fmt.Errorf("%w: streak.current = %d", ErrNegativeBalance, s.Stars.Streak.Current)
	}
	return nil
}

// CompletedCount is the number of checked checklist items.
func (s *AppState) CompletedCount() int {
	n := 0
	for _, t := range s.Checklist {
		if t.Completed {
			n++
		}
	}
	return n
}

// MaxTaskID is the largest id used by any checklist item or board card.
func (s *AppState) MaxTaskID() int64 {
	var maxID int64
	for _, t := range s.Checklist {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	for _, c := range Columns() {
		for _, t := range *s.Kanban.Cards(c) {
			if t.ID > maxID {
				maxID = t.ID
			}
		}
	}
	return maxID
}

// Clone returns a deep copy suitable as a rollback snapshot.
func (s *AppState) Clone() *AppState {
	out := *s
	out.Checklist = append([]ChecklistTask(nil), s.Checklist...)
	out.Kanban = Kanban{
		Todo:  append([]KanbanTask(nil), s.Kanban.Todo...),
		Doing: append([]KanbanTask(nil), s.Kanban.Doing...),
		Done:  append([]KanbanTask(nil), s.Kanban.Done...),
	}
	out.Stars.History = s.Stars.History.clone()
	out.Stars.ClaimedRewards = append([]int(nil), s.Stars.ClaimedRewards...)
	out.Stars.Streak.History = append([]StreakRun(nil), s.Stars.Streak.History...)
	if s.Stars.Streak.LastDate != nil {
		d := *s.Stars.Streak.LastDate
		out.Stars.Streak.LastDate = &d
	}
	out.Money.History = s.Money.History.clone()
	out.Wallet.History = s.Wallet.History.clone()
	out.Piggy.History = s.Piggy.History.clone()
	out.Rules = append([]string(nil), s.Rules...)
	out.Wishlist = append([]Wish(nil), s.Wishlist...)
	out.Diary = append([]DiaryEntry(nil), s.Diary...)
	out.WeeklyStats.Days = append([]DayStat(nil), s.WeeklyStats.Days...)
	out.WeeklyStats.LastWeek = append([]DayStat(nil), s.WeeklyStats.LastWeek...)
	if s.extra != nil {
		out.extra = make(map[string]json.RawMessage, len(s.extra))
		for k, v := range s.extra {
			out.extra[k] = v
		}
	}
	out.Normalize()
	return &out
}

func normalizeHistory(h History) History {
	if h == nil {
		return History{}
	}
	return h.truncated()
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
