package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists actor sessions in PostgreSQL.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	store := &SessionStore{db: db, ttl: ttl}
	if db != nil {
		_ = db.AutoMigrate(&sessionRecord{})
	}
	return store
}

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	ActorKind string     `gorm:"column:actor_kind;type:varchar(16);index:idx_sessions_actor"`
	ActorID   int64      `gorm:"column:actor_id;index:idx_sessions_actor"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "actor_sessions" }

// Issue creates a fresh opaque token bound to the actor.
func (s *SessionStore) Issue(ctx context.Context, actor domain.Actor) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	if _, err := domain.ParseActorKind(string(actor.Kind)); err != nil {
		return "", err
	}
	token := uuid.NewString()
	expiry := time.Now().Add(s.ttl)
	rec := sessionRecord{Token: token, ActorKind: string(actor.Kind), ActorID: actor.ID, ExpiresAt: &expiry}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a bearer token back to its actor, treating expired rows
// as absent.
func (s *SessionStore) Resolve(ctx context.Context, token string) (domain.Actor, error) {
	if err := s.ensureDB(); err != nil {
		return domain.Actor{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Actor{}, ports.ErrSessionNotFound
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		First(&rec, "token = ? AND (expires_at IS NULL OR expires_at > ?)", token, time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Actor{}, ports.ErrSessionNotFound
		}
		return domain.Actor{}, err
	}
	kind, err := domain.ParseActorKind(rec.ActorKind)
	if err != nil {
		return domain.Actor{}, ports.ErrSessionNotFound
	}
	return domain.Actor{Kind: kind, ID: rec.ActorID}, nil
}

// Revoke deletes a session by token.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	now := time.Now()
	return s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&sessionRecord{}).Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
