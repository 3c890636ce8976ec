package ports

import (
	"context"
	"errors"
	"time"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
)

var ErrInstitutionNotFound = errors.New("institution not found")

// PostUrgentCallInput carries a hospital's appeal.
type PostUrgentCallInput struct {
	HospitalID  int64
	Gov         string
	City        string
	Description string
	BloodGroup  []inventorydomain.BloodGroupEntry
}

// PostBloodDriveInput carries a blood bank's drive announcement.
type PostBloodDriveInput struct {
	BloodBankID int64
	StartDate   time.Time
	EndDate     time.Time
	Phone       string
	Description string
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

// UrgentCallView pairs an appeal with the posting hospital.
type UrgentCallView struct {
	Call     *domain.UrgentCall
	Hospital InstitutionSummary
}

// BloodDriveView pairs a drive with the hosting blood bank.
type BloodDriveView struct {
	Drive     *domain.BloodDrive
	BloodBank InstitutionSummary
}

// Service exposes the campaign use cases to adapters.
type Service interface {
	PostUrgentCall(ctx context.Context, input PostUrgentCallInput) (*domain.UrgentCall, error)
	ListUrgentCalls(ctx context.Context) ([]UrgentCallView, error)
	DeleteUrgentCall(ctx context.Context, id int64) error
	PostBloodDrive(ctx context.Context, input PostBloodDriveInput) (*domain.BloodDrive, error)
	ListBloodDrives(ctx context.Context) ([]BloodDriveView, error)
}
