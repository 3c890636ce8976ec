package application

import (
	"errors"
	"fmt"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid donor input")
	// ErrAuthentication wraps credential failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotEligible marks a donor blocked from donating right now.
	ErrNotEligible = errors.New("donor not eligible to donate")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyFirstName) ||
		errors.Is(err, domain.ErrEmptyLastName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrUnderage) ||
		errors.Is(err, domain.ErrInvalidGender) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrDuplicateDisease) ||
		errors.Is(err, domain.ErrInvalidGov) ||
		errors.Is(err, domain.ErrInvalidCity) ||
		errors.Is(err, inventorydomain.ErrUnknownBloodType) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrRecentDonation) || errors.Is(err, domain.ErrCriticalDisease) {
		return fmt.Errorf("%w: %w", ErrNotEligible, err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
