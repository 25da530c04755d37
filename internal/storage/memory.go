package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps the blob in process. Writes can be made to fail.
type MemoryBackend struct {
	mu       sync.Mutex
	data     []byte
	archived [][]byte
	writeErr   error
	readErr    error
	archiveErr error
	writes     int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Read(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readErr != nil {
		return nil, b.readErr
	}
	if b.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Write(ctx context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return b.writeErr
	}
	b.data = append([]byte(nil), payload...)
	b.writes++
	return nil
}

func (b *MemoryBackend) Archive(ctx context.Context, raw []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.archiveErr != nil {
		return b.archiveErr
	}
	b.archived = append(b.archived, append([]byte(nil), raw...))
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}

// FailWrites makes every following Write return err; nil restores writes.
func (b *MemoryBackend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

// FailReads makes every following Read return err; nil restores reads.
func (b *MemoryBackend) FailReads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readErr = err
}

func (b *MemoryBackend) FailArchive(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.archiveErr = err
}

// Seed replaces the stored blob without counting a write.
func (b *MemoryBackend) Seed(raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), raw...)
}

func (b *MemoryBackend) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

func (b *MemoryBackend) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}

func (b *MemoryBackend) Archived() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.archived...)
}
