package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

type Kind string

const (
	KindFile     Kind = "file"
	KindSQLite   Kind = "sqlite"
	KindRedis    Kind = "redis"
	KindPostgres Kind = "postgres"
	KindMemory   Kind = "memory"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindFile, KindSQLite, KindRedis, KindPostgres, KindMemory:
		return true
	default:
		return false
	}
}

type Options struct {
	Kind        Kind
	Path        string
	Key         string
	RedisURL    string
	PostgresURL string
}

// OpenBackend builds the backend named by opts.Kind.
func OpenBackend(ctx context.Context, opts Options) (Backend, error) {
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = DefaultKey
	}
	switch opts.Kind {
	case KindFile, "":
		return NewFileBackend(opts.Path)
	case KindSQLite:
		return OpenSQLite(ctx, opts.Path, key)
	case KindRedis:
		if strings.TrimSpace(opts.RedisURL) == "" {
			return nil, fmt.Errorf("storage: redis backend needs a url")
		}
		return OpenRedis(ctx, opts.RedisURL, key)
	case KindPostgres:
		if strings.TrimSpace(opts.PostgresURL) == "" {
			return nil, fmt.Errorf("storage: postgres backend needs a url")
		}
		return OpenPostgres(ctx, opts.PostgresURL, key)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Kind)
	}
}

// Open builds the backend and wraps it in a Store.
func Open(ctx context.Context, opts Options, logger *log.Logger) (*Store, error) {
	backend, err := OpenBackend(ctx, opts)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("backend", string(opts.Kind))
	}
	store, err := NewStore(backend, logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return store, nil
}
