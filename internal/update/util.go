package update

import (
	"errors"
	"strings"

	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/storage"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// errorText is what the status line shows for err. Save failures get the
// storage layer's user message instead of the raw chain.
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, rewards.ErrSaveFailed):
		return storage.UserMessage(err)
	case errors.Is(err, rewards.ErrInsufficientFunds):
		return "not enough saved for that"
	case errors.Is(err, rewards.ErrBelowOneBundle):
		return "not enough stars for one exchange bundle"
	default:
		return err.Error()
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
