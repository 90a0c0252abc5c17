package lock

import (
	"context"
	"sync"
	"time"

	"headsup-server/pkg/token"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	redisKeyPrefix = "headsup:lock:"
	tokenLength    = 32
	releaseTimeout = 2 * time.Second
)

// only delete the key if we still own it
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisOptions controls how long a lock lives and how hard Lock tries
type RedisOptions struct {
	// TTL bounds how long a crashed holder can block the lobby
	TTL     time.Duration
	Retries int
	Backoff time.Duration
}

// Redis is a Locker shared by every server process using the same Redis
type Redis struct {
	client *redis.Client
	opts   RedisOptions
}

// NewRedis returns a Redis backed Locker
func NewRedis(client *redis.Client, opts RedisOptions) *Redis {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}

	if opts.Retries < 0 {
		opts.Retries = 0
	}

	return &Redis{
		client: client,
		opts:   opts,
	}
}

var _ Locker = (*Redis)(nil)

// Lock tries SET NX up to Retries+1 times
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	tok, err := token.Generate(tokenLength)
	if err != nil {
		return nil, err
	}

	redisKey := redisKeyPrefix + key
	for attempt := 0; attempt <= r.opts.Retries; attempt++ {
		ok, err := r.client.SetNX(ctx, redisKey, tok, r.opts.TTL).Result()
		if err != nil {
			return nil, err
		}

		if ok {
			return r.unlocker(redisKey, tok), nil
		}

		if attempt < r.opts.Retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.opts.Backoff):
			}
		}
	}

	logrus.WithField("key", key).Warn("could not acquire lock")
	return nil, ErrNotAcquired
}

func (r *Redis) unlocker(redisKey, tok string) Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be canceled
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			if err := releaseScript.Run(ctx, r.client, []string{redisKey}, tok).Err(); err != nil {
				logrus.WithError(err).WithField("key", redisKey).Error("could not release lock")
			}
		})
	}
}
