package ports

import (
	"context"
	"errors"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
)

var ErrInstitutionNotFound = errors.New("institution not found")

// Caller identifies the institution acting on an order.
type Caller struct {
	Party         domain.Party
	InstitutionID int64
}

// CreateOrderInput carries a transfer request.
type CreateOrderInput struct {
	BloodGroup  []inventorydomain.BloodGroupEntry
	BloodBankID int64
	HospitalID  int64
	From        domain.Party
	To          domain.Party
}

// InstitutionSummary is the counterpart display projection attached to
// order listings.
type InstitutionSummary struct {
	ID      int64
	Name    string
	Phone   string
	Address string
}

// InstitutionDirectory resolves institution existence and display
// fields; backed by the institutions bounded context.
type InstitutionDirectory interface {
	// Summary fails with ErrInstitutionNotFound for unknown ids.
	Summary(ctx context.Context, id int64) (InstitutionSummary, error)
}

// OrderView pairs an order with both counterpart summaries.
type OrderView struct {
	Order     *domain.Order
	Hospital  InstitutionSummary
	BloodBank InstitutionSummary
}

// Service exposes the order use cases to adapters.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	Settle(ctx context.Context, orderID int64, caller Caller, decision domain.Status) (*domain.Order, error)
	List(ctx context.Context, caller Caller) ([]OrderView, error)
	Get(ctx context.Context, orderID int64) (*OrderView, error)
}
