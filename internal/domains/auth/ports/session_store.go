package ports

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore abstracts bearer-token session persistence for every
// actor kind.
type SessionStore interface {
	Issue(ctx context.Context, actor domain.Actor) (string, error)
	Resolve(ctx context.Context, token string) (domain.Actor, error)
	Revoke(ctx context.Context, token string) error
}

// NoopSessionStore is a safe default when callers do not need session
// persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Issue(_ context.Context, _ domain.Actor) (string, error) { return "", nil }
func (noopSessionStore) Resolve(_ context.Context, _ string) (domain.Actor, error) {
	return domain.Actor{}, ErrSessionNotFound
}
func (noopSessionStore) Revoke(_ context.Context, _ string) error { return nil }
