package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

type RedisSessionStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s:turns", sessionID)
}

func (r *RedisSessionStore) Append(ctx context.Context, sessionID string, maxTurns int, turns ...model.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to marshal turn")
			return fmt.Errorf("marshal turn: %w", err)
		}
		values = append(values, b)
	}
	key := r.sessionKey(sessionID)

	// push, trim to the newest maxTurns and extend TTL in one round trip
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, values...)
		if maxTurns > 0 {
			p.LTrim(ctx, key, int64(-maxTurns), -1)
		}
		if r.ttl > 0 {
			p.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to append turns to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionStore) Load(ctx context.Context, sessionID string) ([]model.Turn, error) {
	key := r.sessionKey(sessionID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.Turn{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation from redis")
		return nil, errx.WrapRedis(err)
	}

	turns := make([]model.Turn, 0, len(rows))
	for i, s := range rows {
		var t model.Turn
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Int("index", i).Msg("failed to unmarshal turn")
			return nil, errx.WrapPersistence(fmt.Errorf("unmarshal turn at index %d: %w", i, err))
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (r *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	key := r.sessionKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete conversation from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionStore = (*RedisSessionStore)(nil)
