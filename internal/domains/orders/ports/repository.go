package ports

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrAlreadySettled marks a second settlement attempt on the same
	// order; the stored status is left untouched.
	ErrAlreadySettled = errors.New("order already settled")
)

// Repository persists orders and performs the settlement write.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByInstitution returns orders referencing the institution on
	// the given side.
	ListByInstitution(ctx context.Context, party domain.Party, institutionID int64) ([]*domain.Order, error)
	// Settle atomically transitions a pending order. Approval re-checks
	// the supplier's live stock, debits it, and credits the receiver in
	// the same transaction; exactly one of any concurrent callers wins,
	// the rest fail with ErrAlreadySettled. Rejection touches no stock.
	Settle(ctx context.Context, orderID int64, decision domain.Status) (*domain.Order, error)
}
