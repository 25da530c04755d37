package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/chorejar/internal/model"
)

// MaxPayloadBytes caps the serialized state.
const MaxPayloadBytes = 5 * 1024 * 1024

// Store applies the state codec and save contract on top of a Backend.
type Store struct {
	backend Backend
	logger  *log.Logger
}

func NewStore(backend Backend, logger *log.Logger) (*Store, error) {
	if backend == nil {
		return nil, errors.New("storage: nil backend")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Read loads and decodes the saved state. It returns ErrNotFound when
// nothing was saved yet.
func (s *Store) Read(ctx context.Context) (*model.AppState, error) {
	raw, err := s.backend.Read(ctx)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrNotFound
	}
	st, err := model.Decode(raw)
	if err != nil {
		return nil, &DecodeError{Raw: raw, Err: err}
	}
	return st, nil
}

// Load is Read for callers that start from defaults. It returns a nil
// state and no error when nothing was saved yet, or when an undecodable
// blob was archived first. Any other failure is returned so the caller
// does not save defaults over data it could not read. The stored blob is
// never touched.
func (s *Store) Load(ctx context.Context) (*model.AppState, error) {
	st, err := s.Read(ctx)
	if err == nil {
		return st, nil
	}
	if errors.Is(err, ErrNotFound) {
		s.logger.Info("no saved state, starting from defaults")
		return nil, nil
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		s.logger.Error("load state failed", "err", err, "reason", Reason(err))
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	s.logger.Error("saved state is corrupt", "err", decodeErr.Err, "bytes", len(decodeErr.Raw))
	archiver, ok := s.backend.(Archiver)
	if !ok {
		return nil, fmt.Errorf("%w: backend cannot archive the corrupt blob: %w", ErrLoadFailed, err)
	}
	if archiveErr := archiver.Archive(ctx, decodeErr.Raw); archiveErr != nil {
		s.logger.Error("archive corrupt state failed", "err", archiveErr)
		return nil, fmt.Errorf("%w: archive corrupt blob: %w", ErrLoadFailed, archiveErr)
	}
	s.logger.Warn("corrupt state archived, starting from defaults")
	return nil, nil
}

// Save validates and writes the state. Nothing is written when it fails.
func (s *Store) Save(ctx context.Context, st *model.AppState) error {
	payload, err := Encode(st)
	if err != nil {
		s.logger.Error("save rejected", "err", err)
		return err
	}
	if err := s.backend.Write(ctx, payload); err != nil {
		s.logger.Error("save failed", "err", err, "reason", Reason(err))
		return fmt.Errorf("storage: write: %w", err)
	}
	s.logger.Debug("state saved", "bytes", len(payload))
	return nil
}

// Import replaces the saved state with an exported blob.
func (s *Store) Import(ctx context.Context, raw []byte) (*model.AppState, error) {
	if len(raw) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(raw))
	}
	st, err := model.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if err := s.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Encode serializes st, enforcing the save contract.
func Encode(st *model.AppState) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil state", ErrInvalidState)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	switch string(bytes.TrimSpace(payload)) {
	case "", "null", "undefined":
		return nil, fmt.Errorf("%w: empty serialization", ErrSerialization)
	}
	if len(payload) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}
	return payload, nil
}

// EncodeIndent is Encode with indentation, used for exports.
func EncodeIndent(st *model.AppState) ([]byte, error) {
	payload, err := Encode(st)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, payload, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("storage: decode state: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
