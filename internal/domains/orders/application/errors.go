package application

import (
	"errors"
	"fmt"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrSettlementForbidden marks a caller that is not the supplying
	// side of the order.
	ErrSettlementForbidden = errors.New("unauthorized to change order status")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidParty) ||
		errors.Is(err, domain.ErrSameParty) ||
		errors.Is(err, domain.ErrEmptyRequest) ||
		errors.Is(err, domain.ErrNonPositiveCount) ||
		errors.Is(err, domain.ErrMissingInstitution) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, inventorydomain.ErrUnknownBloodType) ||
		errors.Is(err, inventorydomain.ErrNegativeCount) ||
		errors.Is(err, inventorydomain.ErrDuplicateBloodType) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, inventoryports.ErrStockNotFound) {
		return ports.ErrInstitutionNotFound
	}
	return err
}
