package ports

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
)

var (
	ErrNotFound   = errors.New("donor not found")
	ErrEmailTaken = errors.New("donor email already registered")
)

type Repository interface {
	Save(ctx context.Context, donor *domain.Donor) (*domain.Donor, error)
	GetByID(ctx context.Context, id int64) (*domain.Donor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Donor, error)
	// ListTop returns donors ordered by donation count, highest first.
	ListTop(ctx context.Context, limit int) ([]*domain.Donor, error)
}

// DonationRepository persists recorded blood bags.
type DonationRepository interface {
	Save(ctx context.Context, donation *domain.Donation) (*domain.Donation, error)
	ListByDonor(ctx context.Context, donorID int64) ([]*domain.Donation, error)
	ListByInstitution(ctx context.Context, institutionID int64) ([]*domain.Donation, error)
}
