package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"gestionale/internal/domain"
)

// SessionCookieName matches the cookie the legacy client already holds.
const SessionCookieName = "gestionale_sid"

// Session is the server-side state bound to an opaque token.
type Session struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
}

// SessionStore keeps sessions keyed by opaque token. Get returns
// domain.ErrNotFound for missing or expired tokens; Delete is
// idempotent.
type SessionStore interface {
	Set(ctx context.Context, token string, session Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore is the single-process default backend.
type MemorySessionStore struct {
	cache *cache.Cache
}

func NewMemorySessionStore(defaultTTL time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (s *MemorySessionStore) Set(ctx context.Context, token string, session Session, ttl time.Duration) error {
	s.cache.Set(token, session, ttl)
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, token string) (Session, error) {
	value, found := s.cache.Get(token)
	if !found {
		return Session{}, domain.NotFoundError{Resource: "session"}
	}
	session, ok := value.(Session)
	if !ok {
		return Session{}, domain.NotFoundError{Resource: "session"}
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}
