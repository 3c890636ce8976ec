package ports

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
)

var (
	ErrNotFound           = errors.New("institution not found")
	ErrEmailTaken         = errors.New("this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repository persists hospitals and blood banks.
type Repository interface {
	Save(ctx context.Context, inst *domain.Institution) (*domain.Institution, error)
	GetByID(ctx context.Context, id int64) (*domain.Institution, error)
	GetByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Institution, error)
	// List returns institutions of a kind, optionally filtered by
	// governorate (empty gov means all).
	List(ctx context.Context, kind domain.Kind, gov string) ([]*domain.Institution, error)
}
