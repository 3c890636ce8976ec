package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore keeps sessions in process memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

type session struct {
	actor     domain.Actor
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{sessions: map[string]session{}, ttl: ttl}
}

func (s *SessionStore) Issue(_ context.Context, actor domain.Actor) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{actor: actor, expiresAt: time.Now().Add(s.ttl)}
	return token, nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (domain.Actor, error) {
	token = strings.TrimSpace(token)
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(sess.expiresAt) {
		return domain.Actor{}, ports.ErrSessionNotFound
	}
	return sess.actor, nil
}

func (s *SessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(token))
	return nil
}

// PurgeExpired drops stale sessions. Use for housekeeping.
func (s *SessionStore) PurgeExpired(_ context.Context) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
	return nil
}
