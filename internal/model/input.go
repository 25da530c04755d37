package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxPiggyAmount bounds a single piggy bank deposit or withdrawal.
	MaxPiggyAmount = 1_000_000
	// MaxGoalAmount bounds a savings goal.
	MaxGoalAmount = 10_000_000
)

var ErrInvalidAmount = errors.New("model: invalid amount")

// ParseAmount converts user input into an integer within [min, max].
// Non-numeric input is rejected instead of being read as zero.
func ParseAmount(raw string, min, max int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidAmount, raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidAmount, v, min, max)
	}
	return v, nil
}

// ParseID converts a task id from user input.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("model: invalid id %q", raw)
	}
	return id, nil
}
