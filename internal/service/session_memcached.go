package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"

	"gestionale/internal/domain"
)

// MemcachedSessionStore keeps sessions in memcached.
type MemcachedSessionStore struct {
	mc *memcache.Client
}

func NewMemcachedSessionStore(mc *memcache.Client) *MemcachedSessionStore {
	return &MemcachedSessionStore{mc: mc}
}

func (s *MemcachedSessionStore) Set(ctx context.Context, token string, session Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.mc.Set(&memcache.Item{
		Key:        sessionKeyPrefix + token,
		Value:      payload,
		Expiration: int32(ttl / time.Second),
	})
	if err != nil {
		return errors.Wrap(err, "storing session")
	}
	return nil
}

func (s *MemcachedSessionStore) Get(ctx context.Context, token string) (Session, error) {
	item, err := s.mc.Get(sessionKeyPrefix + token)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return Session{}, domain.NotFoundError{Resource: "session"}
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "loading session")
	}

	var session Session
	err = json.Unmarshal(item.Value, &session)
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *MemcachedSessionStore) Delete(ctx context.Context, token string) error {
	err := s.mc.Delete(sessionKeyPrefix + token)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}
