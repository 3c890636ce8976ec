package donations

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	donorsapplication "github.com/bloodlink/bloodlink-api/internal/domains/donors/application"
	donorsdomain "github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
)

const (
	// RecordDonationActivityName persists a blood bag and credits the institution stock.
	RecordDonationActivityName = "donations.activities.RecordDonation"
	// DonationRejectedErrorType marks failures that retrying cannot fix.
	DonationRejectedErrorType = "DonationRejected"
)

// Activities groups activities that operate on the donors bounded context.
type Activities struct {
	service donorsports.Service
}

// NewActivities wires the donor service into the Temporal activities bundle.
func NewActivities(service donorsports.Service) *Activities {
	return &Activities{service: service}
}

// RecordDonation runs the full intake through the donor service.
func (a *Activities) RecordDonation(ctx context.Context, input donorsports.RecordDonationInput) (*donorsdomain.Donation, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("donation intake activity not initialized", "donorId", input.DonorID)
		return nil, errors.New("donation intake activity not initialized")
	}
	logger.Info("RecordDonation activity started", "donorId", input.DonorID, "institutionId", input.InstitutionID)
	donation, err := a.service.RecordDonation(ctx, input)
	if err != nil {
		logger.Error("RecordDonation activity failed", "donorId", input.DonorID, "error", err)
		if errors.Is(err, donorsapplication.ErrNotEligible) ||
			errors.Is(err, donorsapplication.ErrInvalidInput) ||
			errors.Is(err, donorsports.ErrNotFound) ||
			errors.Is(err, donorsports.ErrInstitutionNotFound) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), DonationRejectedErrorType, err)
		}
		return nil, err
	}
	logger.Info("RecordDonation activity completed", "donationId", donation.ID)
	return donation, nil
}
