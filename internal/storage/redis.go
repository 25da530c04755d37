package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// archiveTTL is how long a corrupt blob copy is kept in Redis.
const archiveTTL = 30 * 24 * time.Hour

// RedisBackend stores the blob under a single key.
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(client *redis.Client, key string) (*RedisBackend, error) {
	if client == nil {
		return nil, errors.New("storage: nil redis client")
	}
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &RedisBackend{client: client, key: key}, nil
}

// OpenRedis accepts a redis:// URL or a bare host:port.
func OpenRedis(ctx context.Context, redisURL, key string) (*RedisBackend, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", classifyRedisError(err))
	}
	return NewRedisBackend(client, key)
}

func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, classifyRedisError(err)
	}
	return raw, nil
}

func (b *RedisBackend) Write(ctx context.Context, payload []byte) error {
	if err := b.client.Set(ctx, b.key, payload, 0).Err(); err != nil {
		return classifyRedisError(err)
	}
	return nil
}

func (b *RedisBackend) Archive(ctx context.Context, raw []byte) error {
	name := fmt.Sprintf("%s:corrupt:%d", b.key, time.Now().UTC().Unix())
	if err := b.client.Set(ctx, name, raw, archiveTTL).Err(); err != nil {
		return classifyRedisError(err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func classifyRedisError(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "OOM"):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case strings.HasPrefix(msg, "NOPERM"), strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}
