package ports

import (
	"context"
	"errors"
	"time"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInstitutionNotFound = errors.New("institution not found")
)

// RegisterInput carries the donor registration form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BirthDate time.Time
	Gender    domain.Gender
	Phone     string
	BloodType inventorydomain.BloodType
	Diseases  []string
	Gov       string
	City      string
}

// UpdateInput updates the mutable profile fields; nil leaves a field
// unchanged.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Diseases  *[]string
	Gov       *string
	City      *string
}

// RecordDonationInput registers one blood bag at an institution.
type RecordDonationInput struct {
	DonorID       int64
	InstitutionID int64
	DonatedAt     time.Time
}

// DonationAtInstitution is a donor-facing listing row.
type DonationAtInstitution struct {
	Donation    *domain.Donation
	Institution InstitutionSummary
}

// DonationByDonor is an institution-facing listing row.
type DonationByDonor struct {
	Donation  *domain.Donation
	DonorName string
	Phone     string
	BloodType inventorydomain.BloodType
}

// InstitutionSummary mirrors the display fields resolved through the
// institutions context.
type InstitutionSummary struct {
	ID      int64
	Name    string
	Phone   string
	Address string
}

// InstitutionDirectory resolves institution display fields.
type InstitutionDirectory interface {
	Summary(ctx context.Context, id int64) (InstitutionSummary, error)
}

// Service exposes the donor use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Donor, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.Donor, string, error)
	SignOut(ctx context.Context, token string) error
	GetByID(ctx context.Context, id int64) (*domain.Donor, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*domain.Donor, error)
	RecordDonation(ctx context.Context, input RecordDonationInput) (*domain.Donation, error)
	DonationsByDonor(ctx context.Context, donorID int64) ([]DonationAtInstitution, error)
	DonationsByInstitution(ctx context.Context, institutionID int64) ([]DonationByDonor, error)
	TopDonors(ctx context.Context, limit int) ([]*domain.Donor, error)
}

// IntakeOrchestrator runs the donation intake, durably when a Temporal
// worker is connected.
type IntakeOrchestrator interface {
	RecordDonation(ctx context.Context, input RecordDonationInput) (*domain.Donation, error)
}
