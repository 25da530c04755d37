package storage

import (
	"context"
	"errors"
)

// DefaultKey is the namespaced identifier the state blob is stored under.
const DefaultKey = "chorejar.appdata"

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrInvalidState  = errors.New("storage: invalid state")
	ErrSerialization = errors.New("storage: serialization failed")
	ErrTooLarge      = errors.New("storage: payload exceeds size limit")
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrLoadFailed    = errors.New("storage: saved state could not be loaded")
)

// Backend persists one opaque blob. Read returns ErrNotFound when nothing
// has been written yet.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
	Close() error
}

// Archiver is implemented by backends that can keep a copy of a blob that
// failed to decode, so a later fix can recover it.
type Archiver interface {
	Archive(ctx context.Context, raw []byte) error
}

type FailureReason string

const (
	ReasonNone     FailureReason = ""
	ReasonQuota    FailureReason = "quota"
	ReasonAccess   FailureReason = "access"
	ReasonTooLarge FailureReason = "too_large"
	ReasonInvalid  FailureReason = "invalid"
	ReasonGeneric  FailureReason = "generic"
)

// Reason classifies a Save error so callers can pick a message.
func Reason(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrQuotaExceeded):
		return ReasonQuota
	case errors.Is(err, ErrAccessDenied):
		return ReasonAccess
	case errors.Is(err, ErrTooLarge):
		return ReasonTooLarge
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrSerialization):
		return ReasonInvalid
	default:
		return ReasonGeneric
	}
}

// UserMessage turns a Load or Save error into a short actionable message.
func UserMessage(err error) string {
	switch Reason(err) {
	case ReasonNone:
		return ""
	case ReasonQuota:
		return "Not enough storage space. Remove old data and try again."
	case ReasonAccess:
		return "Storage is not accessible. Check permissions and settings."
	case ReasonTooLarge:
		return "Data is too large to save (limit 5 MB)."
	case ReasonInvalid:
		return "Data is invalid and was not saved."
	default:
		if errors.Is(err, ErrLoadFailed) {
			return "Could not read saved data. Nothing was changed; try again later."
		}
		return "Could not save data. Try again later."
	}
}
