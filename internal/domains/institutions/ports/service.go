package ports

import (
	"context"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
)

// RegisterInput carries everything needed to enroll an institution.
type RegisterInput struct {
	Kind     domain.Kind
	Name     string
	Email    string
	Password string
	Phone    string
	Gov      string
	City     string
	Address  string
}

// UpdateInput carries optional profile changes; nil fields stay as-is.
type UpdateInput struct {
	Name     *string
	Password *string
	Phone    *string
	Gov      *string
	City     *string
	Address  *string
}

// Service exposes institution use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Institution, error)
	SignIn(ctx context.Context, kind domain.Kind, email, password string) (token string, inst *domain.Institution, err error)
	SignOut(ctx context.Context, token string) error
	GetByID(ctx context.Context, id int64) (*domain.Institution, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*domain.Institution, error)
	Stock(ctx context.Context, id int64) ([]inventorydomain.BloodGroupEntry, error)
	// MergeStock folds signed adjustments into the stored stock,
	// clamping each merged count at zero.
	MergeStock(ctx context.Context, id int64, adjustments []inventorydomain.BloodGroupEntry) ([]inventorydomain.BloodGroupEntry, error)
	// ListBanks returns blood banks, scoped to a governorate unless gov
	// is empty.
	ListBanks(ctx context.Context, gov string) ([]*domain.Institution, error)
	Summary(ctx context.Context, id int64) (domain.Summary, error)
}
