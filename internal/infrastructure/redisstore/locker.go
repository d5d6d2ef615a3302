package redisstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-directory/internal/domain/security"
)

// releaseScript deletes the lock only if it is still held by this owner.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a distributed per-key mutex over SET NX PX. The TTL bounds how
// long a crashed holder can block an account.
type Locker struct {
	rdb    *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *logrus.Logger
}

func NewLocker(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Locker{rdb: rdb, ttl: ttl, retry: 25 * time.Millisecond, logger: logger}
}

func lockKey(key string) string { return "lock:" + key }

// Lock blocks until the key is acquired or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	k := lockKey(key)
	owner := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, k, owner, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		t := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(c, l.rdb, []string{k}, owner).Err(); err != nil && l.logger != nil {
				l.logger.WithError(err).WithField("key", k).Warn("redis lock release failed")
			}
		})
	}, nil
}

var _ security.Locker = (*Locker)(nil)
