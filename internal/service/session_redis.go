package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"gestionale/internal/domain"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps sessions in redis so they survive restarts.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Set(ctx context.Context, token string, session Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.rdb.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err()
	if err != nil {
		return errors.Wrap(err, "storing session")
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (Session, error) {
	payload, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, domain.NotFoundError{Resource: "session"}
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "loading session")
	}

	var session Session
	err = json.Unmarshal(payload, &session)
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
