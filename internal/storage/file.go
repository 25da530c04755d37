package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// FileBackend keeps the blob in a single JSON file, replaced atomically
// through a temp file and rename.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) (*FileBackend, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: empty file path")
	}
	return &FileBackend{path: trimmed}, nil
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, classifyFSError(err)
	}
	return raw, nil
}

func (b *FileBackend) Write(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(b.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return classifyFSError(err)
		}
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		_ = os.Remove(tmp)
		return classifyFSError(err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		_ = os.Remove(tmp)
		return classifyFSError(err)
	}
	return nil
}

func (b *FileBackend) Archive(ctx context.Context, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := fmt.Sprintf("%s.corrupt-%s", b.path, time.Now().UTC().Format("20060102T150405"))
	if err := os.WriteFile(name, raw, 0o600); err != nil {
		return classifyFSError(err)
	}
	return nil
}

func (b *FileBackend) Close() error {
	return nil
}

func classifyFSError(err error) error {
	switch {
	case errors.Is(err, syscall.ENOSPC), errors.Is(err, syscall.EDQUOT):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EROFS):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}
