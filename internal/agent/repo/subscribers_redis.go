package repo

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

const subscribersKey = "broadcast:subscribers"

// RedisSubscriberStore keeps the subscriber list in a Redis list.
type RedisSubscriberStore struct {
	rdb redis.Cmdable
}

func NewRedisSubscriberStore(rdb redis.Cmdable) *RedisSubscriberStore {
	return &RedisSubscriberStore{rdb: rdb}
}

func (r *RedisSubscriberStore) Load(ctx context.Context) ([]string, error) {
	subs, err := r.rdb.LRange(ctx, subscribersKey, 0, -1).Result()
	if err != nil && err != redis.Nil {
		logx.Error().Err(err).Str("key", subscribersKey).Msg("failed to load subscribers from redis")
		return nil, errx.WrapRedis(err)
	}
	if subs == nil {
		subs = []string{}
	}
	return subs, nil
}

// addSubscriber appends ARGV[1] to the list unless it is already present.
// Returns 1 when appended.
var addSubscriber = redis.NewScript(`
local items = redis.call('LRANGE', KEYS[1], 0, -1)
for _, v in ipairs(items) do
	if v == ARGV[1] then
		return 0
	end
end
redis.call('RPUSH', KEYS[1], ARGV[1])
return 1
`)

func (r *RedisSubscriberStore) Add(ctx context.Context, id string) (bool, error) {
	added, err := addSubscriber.Run(ctx, r.rdb, []string{subscribersKey}, id).Int()
	if err != nil {
		logx.Error().Err(err).Str("key", subscribersKey).Msg("failed to add subscriber to redis")
		return false, errx.WrapRedis(err)
	}
	return added == 1, nil
}

var _ model.SubscriberStore = (*RedisSubscriberStore)(nil)
