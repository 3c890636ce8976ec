package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
)

var (
	_ ports.UrgentCallRepository = (*UrgentCallRepository)(nil)
	_ ports.BloodDriveRepository = (*BloodDriveRepository)(nil)
)

// UrgentCallRepository is an in-memory appeal store.
type UrgentCallRepository struct {
	mu     sync.RWMutex
	calls  map[int64]*domain.UrgentCall
	nextID int64
}

func NewUrgentCallRepository() *UrgentCallRepository {
	return &UrgentCallRepository{calls: map[int64]*domain.UrgentCall{}}
}

func (r *UrgentCallRepository) Save(_ context.Context, call *domain.UrgentCall) (*domain.UrgentCall, error) {
	if call == nil {
		return nil, errors.New("urgent call is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneCall(call)
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.calls[clone.ID] = clone
	return cloneCall(clone), nil
}

func (r *UrgentCallRepository) List(_ context.Context) ([]*domain.UrgentCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.UrgentCall, 0, len(r.calls))
	for _, call := range r.calls {
		list = append(list, cloneCall(call))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *UrgentCallRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calls[id]; !ok {
		return ports.ErrCampaignNotFound
	}
	delete(r.calls, id)
	return nil
}

// BloodDriveRepository is an in-memory drive store.
type BloodDriveRepository struct {
	mu     sync.RWMutex
	drives map[int64]*domain.BloodDrive
	nextID int64
}

func NewBloodDriveRepository() *BloodDriveRepository {
	return &BloodDriveRepository{drives: map[int64]*domain.BloodDrive{}}
}

func (r *BloodDriveRepository) Save(_ context.Context, drive *domain.BloodDrive) (*domain.BloodDrive, error) {
	if drive == nil {
		return nil, errors.New("blood drive is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *drive
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.drives[clone.ID] = &clone
	copied := clone
	return &copied, nil
}

func (r *BloodDriveRepository) List(_ context.Context) ([]*domain.BloodDrive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.BloodDrive, 0, len(r.drives))
	for _, drive := range r.drives {
		clone := *drive
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func cloneCall(call *domain.UrgentCall) *domain.UrgentCall {
	clone := *call
	clone.BloodGroup = append([]inventorydomain.BloodGroupEntry{}, call.BloodGroup...)
	return &clone
}
