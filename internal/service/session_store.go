package service

import (
	"context"
	"encoding/json"
	"time"

	"dailydose/internal/cache"
	"dailydose/internal/domain"
)

// SessionStore keeps live session state in the cache under a TTL. Sessions
// are ephemeral: submission or expiry removes them.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionStore creates a cache-backed session store.
func NewSessionStore(cacheClient domain.Cache, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionStore{cache: cacheClient, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return cache.GenerateCacheKey("session", "state", sessionID)
}

// Save implements SessionStore. Each save refreshes the TTL so an active
// learner is not expired mid-session.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("Failed to encode session", err)
	}
	if err := s.cache.Set(ctx, sessionKey(session.ID), string(data), s.ttl); err != nil {
		return domain.NewInternalError("Failed to store session", err)
	}
	return nil
}

// Get implements SessionStore
func (s *sessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := s.cache.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}
		return nil, domain.NewInternalError("Failed to load session", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, domain.NewInternalError("Failed to decode session", err)
	}
	if session.Results == nil {
		session.Results = make(map[string]domain.QuestionResult)
	}
	return &session, nil
}

// Delete implements SessionStore
func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKey(sessionID))
}
