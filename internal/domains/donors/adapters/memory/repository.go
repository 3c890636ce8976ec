package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
)

var (
	_ ports.Repository         = (*Repository)(nil)
	_ ports.DonationRepository = (*DonationRepository)(nil)
)

// Repository is an in-memory donor store keyed by id with an email
// uniqueness guard.
type Repository struct {
	mu     sync.RWMutex
	donors map[int64]*domain.Donor
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{donors: map[int64]*domain.Donor{}}
}

func (r *Repository) Save(_ context.Context, donor *domain.Donor) (*domain.Donor, error) {
	if donor == nil {
		return nil, errors.New("donor is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.donors {
		if existing.ID != donor.ID && strings.EqualFold(existing.Email, donor.Email) {
			return nil, ports.ErrEmailTaken
		}
	}
	clone := cloneDonor(donor)
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.donors[clone.ID] = clone
	return cloneDonor(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Donor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	donor, ok := r.donors[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneDonor(donor), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Donor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, donor := range r.donors {
		if strings.EqualFold(donor.Email, email) {
			return cloneDonor(donor), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ListTop(_ context.Context, limit int) ([]*domain.Donor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Donor, 0, len(r.donors))
	for _, donor := range r.donors {
		list = append(list, cloneDonor(donor))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].DonationTimes != list[j].DonationTimes {
			return list[i].DonationTimes > list[j].DonationTimes
		}
		return list[i].ID < list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// DonationRepository is an in-memory blood bag store.
type DonationRepository struct {
	mu        sync.RWMutex
	donations map[int64]*domain.Donation
	nextID    int64
}

func NewDonationRepository() *DonationRepository {
	return &DonationRepository{donations: map[int64]*domain.Donation{}}
}

func (r *DonationRepository) Save(_ context.Context, donation *domain.Donation) (*domain.Donation, error) {
	if donation == nil {
		return nil, errors.New("donation is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *donation
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.donations[clone.ID] = &clone
	copied := clone
	return &copied, nil
}

func (r *DonationRepository) ListByDonor(_ context.Context, donorID int64) ([]*domain.Donation, error) {
	return r.list(func(d *domain.Donation) bool { return d.DonorID == donorID })
}

func (r *DonationRepository) ListByInstitution(_ context.Context, institutionID int64) ([]*domain.Donation, error) {
	return r.list(func(d *domain.Donation) bool { return d.InstitutionID == institutionID })
}

func (r *DonationRepository) list(match func(*domain.Donation) bool) ([]*domain.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Donation
	for _, donation := range r.donations {
		if match(donation) {
			clone := *donation
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func cloneDonor(donor *domain.Donor) *domain.Donor {
	clone := *donor
	clone.Diseases = append([]string{}, donor.Diseases...)
	if donor.LastDonationDate != nil {
		last := *donor.LastDonationDate
		clone.LastDonationDate = &last
	}
	return &clone
}
