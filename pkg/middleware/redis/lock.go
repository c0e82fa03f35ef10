package redis

import (
	"context"
	"time"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/common/uuid"
)

var releaseScript = r.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client *r.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewLocker(client *r.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Locker{client: client, ttl: ttl, retry: 20 * time.Millisecond}
}

// Lock blocks until key is held or ctx ends. The returned func releases the lock.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewV4().String()
	deadline := time.Now().Add(l.ttl)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, code.ScopeLockErr.WithErr(err)
		}
		if ok {
			return func() {
				_ = releaseScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, code.ScopeLockErr.WithMsgf("lock %s timeout", key)
		}
		select {
		case <-ctx.Done():
			return nil, code.ScopeLockErr.WithErr(ctx.Err())
		case <-time.After(l.retry):
		}
	}
}
