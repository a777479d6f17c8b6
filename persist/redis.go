package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/hmori/quizquest/engine/save"
)

const redisKeyPrefix = "quizquest:progress:"

// RedisStore keeps snapshots as JSON values. Suited for fast checkpointing
// in front of (or instead of) a relational backend.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Load(ctx context.Context, playerID string) (*save.Snapshot, bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+playerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading progress for %q: %w", playerID, err)
	}
	sn, err := save.Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding progress for %q: %w", playerID, err)
	}
	return sn, true, nil
}

func (r *RedisStore) Save(ctx context.Context, playerID string, sn *save.Snapshot) error {
	payload, err := save.Marshal(sn)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+playerID, payload, 0).Err(); err != nil {
		return fmt.Errorf("saving progress for %q: %w", playerID, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
