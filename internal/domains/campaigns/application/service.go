package application

import (
	"context"
	"errors"
	"fmt"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid campaign input")

// Service orchestrates urgent calls and blood drives.
type Service struct {
	calls     ports.UrgentCallRepository
	drives    ports.BloodDriveRepository
	directory ports.InstitutionDirectory
}

func NewService(calls ports.UrgentCallRepository, drives ports.BloodDriveRepository, directory ports.InstitutionDirectory) *Service {
	return &Service{calls: calls, drives: drives, directory: directory}
}

func (s *Service) PostUrgentCall(ctx context.Context, input ports.PostUrgentCallInput) (*domain.UrgentCall, error) {
	call, err := domain.NewUrgentCall(input.HospitalID, input.Gov, input.City, input.Description, input.BloodGroup)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.directory.Summary(ctx, call.HospitalID); err != nil {
		return nil, err
	}
	return s.calls.Save(ctx, call)
}

// ListUrgentCalls returns all appeals; rows whose hospital no longer
// resolves are skipped.
func (s *Service) ListUrgentCalls(ctx context.Context) ([]ports.UrgentCallView, error) {
	calls, err := s.calls.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ports.UrgentCallView, 0, len(calls))
	for _, call := range calls {
		hospital, err := s.directory.Summary(ctx, call.HospitalID)
		if err != nil {
			if errors.Is(err, ports.ErrInstitutionNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, ports.UrgentCallView{Call: call, Hospital: hospital})
	}
	return views, nil
}

func (s *Service) DeleteUrgentCall(ctx context.Context, id int64) error {
	return s.calls.Delete(ctx, id)
}

func (s *Service) PostBloodDrive(ctx context.Context, input ports.PostBloodDriveInput) (*domain.BloodDrive, error) {
	drive, err := domain.NewBloodDrive(input.BloodBankID, input.StartDate, input.EndDate, input.Phone, input.Description)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.directory.Summary(ctx, drive.BloodBankID); err != nil {
		return nil, err
	}
	return s.drives.Save(ctx, drive)
}

func (s *Service) ListBloodDrives(ctx context.Context) ([]ports.BloodDriveView, error) {
	drives, err := s.drives.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ports.BloodDriveView, 0, len(drives))
	for _, drive := range drives {
		bank, err := s.directory.Summary(ctx, drive.BloodBankID)
		if err != nil {
			if errors.Is(err, ports.ErrInstitutionNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, ports.BloodDriveView{Drive: drive, BloodBank: bank})
	}
	return views, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingHospital) ||
		errors.Is(err, domain.ErrMissingBloodBank) ||
		errors.Is(err, domain.ErrEmptyDescription) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrInvalidGov) ||
		errors.Is(err, domain.ErrInvalidCity) ||
		errors.Is(err, domain.ErrInvalidPeriod) ||
		errors.Is(err, domain.ErrEmptyNeed) ||
		errors.Is(err, inventorydomain.ErrUnknownBloodType) ||
		errors.Is(err, inventorydomain.ErrNegativeCount) ||
		errors.Is(err, inventorydomain.ErrDuplicateBloodType) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
