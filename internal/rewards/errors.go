package rewards

import (
	"errors"

	"github.com/sandeepkv93/chorejar/internal/model"
)

var (
	ErrInvalidAmount     = model.ErrInvalidAmount
	ErrInvalidColumn     = model.ErrInvalidColumn
	ErrInvalidSettings   = model.ErrInvalidSettings
	ErrInsufficientFunds = errors.New("rewards: insufficient funds")
	ErrBelowOneBundle    = errors.New("rewards: amount is below one exchange bundle")
	ErrTaskNotFound      = errors.New("rewards: task not found")
	ErrRuleNotFound      = errors.New("rewards: rule not found")
	ErrWishNotFound      = errors.New("rewards: wish not found")

	// ErrSaveFailed wraps the storage error of a change that was rolled back.
	ErrSaveFailed = errors.New("rewards: save failed")
)
