package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	authports "github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
)

// DefaultTopDonorLimit bounds the heroes listing when no limit is given.
const DefaultTopDonorLimit = 10

// Service orchestrates donor enrollment and donation intake.
type Service struct {
	repo             ports.Repository
	donations        ports.DonationRepository
	sessions         authports.SessionStore
	inventory        inventoryports.Store
	directory        ports.InstitutionDirectory
	criticalDiseases []string
}

func NewService(repo ports.Repository, donations ports.DonationRepository, sessions authports.SessionStore,
	inventory inventoryports.Store, directory ports.InstitutionDirectory, criticalDiseases []string) *Service {
	if sessions == nil {
		sessions = authports.NoopSessionStore
	}
	return &Service{
		repo:             repo,
		donations:        donations,
		sessions:         sessions,
		inventory:        inventory,
		directory:        directory,
		criticalDiseases: criticalDiseases,
	}
}

// Register enrolls a donor and signs them in.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.Donor, string, error) {
	donor, err := domain.NewDonor(input.FirstName, input.LastName, input.Email, input.BirthDate,
		input.Gender, input.Phone, input.BloodType, input.Diseases, input.Gov, input.City)
	if err != nil {
		return nil, "", mapError(err)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, "", mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	donor.PasswordHash = string(hash)
	saved, err := s.repo.Save(ctx, donor)
	if err != nil {
		return nil, "", mapError(err)
	}
	token, err := s.sessions.Issue(ctx, authdomain.Actor{Kind: authdomain.KindDonor, ID: saved.ID})
	if err != nil {
		return nil, "", err
	}
	return saved, token, nil
}

// SignIn verifies credentials and issues an opaque session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Donor, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, "", mapError(ports.ErrInvalidCredentials)
	}
	donor, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, "", mapError(ports.ErrInvalidCredentials)
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(donor.PasswordHash), []byte(password)) != nil {
		return nil, "", mapError(ports.ErrInvalidCredentials)
	}
	token, err := s.sessions.Issue(ctx, authdomain.Actor{Kind: authdomain.KindDonor, ID: donor.ID})
	if err != nil {
		return nil, "", err
	}
	return donor, token, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, input ports.UpdateInput) (*domain.Donor, error) {
	donor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	first, last := donor.FirstName, donor.LastName
	if input.FirstName != nil {
		first = *input.FirstName
	}
	if input.LastName != nil {
		last = *input.LastName
	}
	if input.FirstName != nil || input.LastName != nil {
		if err := donor.SetName(first, last); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Phone != nil {
		if err := donor.SetPhone(*input.Phone); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Diseases != nil {
		if err := donor.SetDiseases(*input.Diseases); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Gov != nil {
		if err := donor.SetGov(*input.Gov); err != nil {
			return nil, mapError(err)
		}
	}
	if input.City != nil {
		if err := donor.SetCity(*input.City); err != nil {
			return nil, mapError(err)
		}
	}
	return s.repo.Save(ctx, donor)
}

// RecordDonation registers one blood bag: the eligibility gate, the
// bag itself, the +1 on the receiving institution's stock, and the
// donor's tally all happen here.
func (s *Service) RecordDonation(ctx context.Context, input ports.RecordDonationInput) (*domain.Donation, error) {
	donor, err := s.repo.GetByID(ctx, input.DonorID)
	if err != nil {
		return nil, err
	}
	donatedAt := input.DonatedAt
	if donatedAt.IsZero() {
		donatedAt = time.Now().UTC()
	}
	if err := donor.CheckEligible(donatedAt, s.criticalDiseases); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.directory.Summary(ctx, input.InstitutionID); err != nil {
		return nil, err
	}
	donation, err := s.donations.Save(ctx, &domain.Donation{
		DonorID:       donor.ID,
		InstitutionID: input.InstitutionID,
		BloodType:     donor.BloodType,
		DonatedAt:     donatedAt,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.inventory.ApplyDelta(ctx, input.InstitutionID,
		[]inventorydomain.BloodGroupEntry{{BloodType: donor.BloodType, Count: 1}}); err != nil {
		return nil, err
	}
	donor.RecordDonation(donatedAt)
	if _, err := s.repo.Save(ctx, donor); err != nil {
		return nil, err
	}
	return donation, nil
}

// DonationsByDonor lists a donor's history with institution display
// fields attached.
func (s *Service) DonationsByDonor(ctx context.Context, donorID int64) ([]ports.DonationAtInstitution, error) {
	if _, err := s.repo.GetByID(ctx, donorID); err != nil {
		return nil, err
	}
	donations, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	rows := make([]ports.DonationAtInstitution, 0, len(donations))
	for _, donation := range donations {
		summary, err := s.directory.Summary(ctx, donation.InstitutionID)
		if err != nil {
			if errors.Is(err, ports.ErrInstitutionNotFound) {
				continue
			}
			return nil, err
		}
		rows = append(rows, ports.DonationAtInstitution{Donation: donation, Institution: summary})
	}
	return rows, nil
}

// DonationsByInstitution lists the bags an institution received with
// donor contact fields attached.
func (s *Service) DonationsByInstitution(ctx context.Context, institutionID int64) ([]ports.DonationByDonor, error) {
	donations, err := s.donations.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	rows := make([]ports.DonationByDonor, 0, len(donations))
	for _, donation := range donations {
		donor, err := s.repo.GetByID(ctx, donation.DonorID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return nil, err
		}
		rows = append(rows, ports.DonationByDonor{
			Donation:  donation,
			DonorName: donor.FullName(),
			Phone:     donor.Phone,
			BloodType: donor.BloodType,
		})
	}
	return rows, nil
}

// TopDonors returns the heroes listing, most donations first.
func (s *Service) TopDonors(ctx context.Context, limit int) ([]*domain.Donor, error) {
	if limit <= 0 {
		limit = DefaultTopDonorLimit
	}
	return s.repo.ListTop(ctx, limit)
}

var _ ports.Service = (*Service)(nil)
