// file: internals/features/attendance/records/source/redis_source.go
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// redisGetter: subset dari *redis.Client yang dipakai (biar gampang di-fake di test).
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource: tree event disimpan device gateway sebagai satu JSON di satu key,
// jadi satu GET = satu snapshot konsisten.
type RedisSource struct {
	Client redisGetter
	Key    string
}

func NewRedisSource(client *redis.Client, key string) *RedisSource {
	return &RedisSource{Client: client, Key: key}
}

func (s *RedisSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	raw, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", s.Key, err)
	}
	return ParseSnapshot(raw)
}
