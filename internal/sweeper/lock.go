package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLock is a SET NX PX lock. Only the owner that took it can release it.
type RedisLock struct {
	client redis.Cmdable
	key    string
	owner  string
	ttl    time.Duration
}

func NewRedisLock(client redis.Cmdable, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		key:    key,
		owner:  uuid.NewString(),
		ttl:    ttl,
	}
}

func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	const op = "sweeper.RedisLock.TryLock"

	ok, err := l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

func (l *RedisLock) Unlock(ctx context.Context) error {
	const op = "sweeper.RedisLock.Unlock"

	if err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.owner).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
