package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory institution persistence adapter.
type Repository struct {
	mu           sync.RWMutex
	institutions map[int64]*domain.Institution
	nextID       int64
}

func NewRepository() *Repository {
	return &Repository{institutions: map[int64]*domain.Institution{}}
}

func (r *Repository) Save(_ context.Context, inst *domain.Institution) (*domain.Institution, error) {
	if inst == nil {
		return nil, errors.New("institution is nil")
	}
	clone := *inst
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.institutions {
		if id != clone.ID && existing.Kind == clone.Kind && existing.Email == clone.Email {
			return nil, ports.ErrEmailTaken
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.institutions[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Institution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.institutions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *inst
	return &clone, nil
}

func (r *Repository) GetByEmail(_ context.Context, kind domain.Kind, email string) (*domain.Institution, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inst := range r.institutions {
		if inst.Kind == kind && inst.Email == email {
			clone := *inst
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context, kind domain.Kind, gov string) ([]*domain.Institution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Institution
	for _, inst := range r.institutions {
		if inst.Kind != kind {
			continue
		}
		if gov != "" && inst.Gov != gov {
			continue
		}
		clone := *inst
		list = append(list, &clone)
	}
	return list, nil
}
