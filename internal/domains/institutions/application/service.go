package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	authports "github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"
)

// Service orchestrates institution use cases.
type Service struct {
	repo      ports.Repository
	sessions  authports.SessionStore
	inventory inventoryports.SeededStore
}

func NewService(repo ports.Repository, sessions authports.SessionStore, inventory inventoryports.SeededStore) *Service {
	if sessions == nil {
		sessions = authports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions, inventory: inventory}
}

// Register enrolls a hospital or blood bank and seeds its inventory
// with every blood type at zero.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.Institution, error) {
	inst, err := domain.NewInstitution(input.Kind, input.Name, input.Email, input.Phone, input.Gov, input.City, input.Address)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	inst.PasswordHash = string(hash)
	saved, err := s.repo.Save(ctx, inst)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.inventory.Seed(ctx, saved.ID); err != nil {
		return nil, err
	}
	return saved, nil
}

// SignIn verifies credentials and issues an opaque session token.
func (s *Service) SignIn(ctx context.Context, kind domain.Kind, email, password string) (string, *domain.Institution, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return "", nil, mapError(ports.ErrInvalidCredentials)
	}
	inst, err := s.repo.GetByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", nil, mapError(ports.ErrInvalidCredentials)
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(inst.PasswordHash), []byte(password)) != nil {
		return "", nil, mapError(ports.ErrInvalidCredentials)
	}
	token, err := s.sessions.Issue(ctx, authdomain.Actor{Kind: actorKind(kind), ID: inst.ID})
	if err != nil {
		return "", nil, err
	}
	return token, inst, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Institution, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, input ports.UpdateInput) (*domain.Institution, error) {
	inst, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := inst.SetName(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Phone != nil {
		if err := inst.SetPhone(*input.Phone); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Gov != nil {
		if err := inst.SetGov(*input.Gov); err != nil {
			return nil, mapError(err)
		}
	}
	if input.City != nil {
		if err := inst.SetCity(*input.City); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Address != nil {
		if err := inst.SetAddress(*input.Address); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, mapError(err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		inst.PasswordHash = string(hash)
	}
	return s.repo.Save(ctx, inst)
}

func (s *Service) Stock(ctx context.Context, id int64) ([]inventorydomain.BloodGroupEntry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.inventory.GetStock(ctx, id)
}

// MergeStock applies the profile-patch semantics: submitted counts are
// summed into the stored ones and clamped at zero from below.
func (s *Service) MergeStock(ctx context.Context, id int64, adjustments []inventorydomain.BloodGroupEntry) ([]inventorydomain.BloodGroupEntry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	for _, a := range adjustments {
		if !a.BloodType.IsValid() {
			return nil, mapError(inventorydomain.ErrUnknownBloodType)
		}
	}
	current, err := s.inventory.GetStock(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := inventorydomain.Merge(current, adjustments)
	return s.inventory.ReplaceStock(ctx, id, merged)
}

func (s *Service) ListBanks(ctx context.Context, gov string) ([]*domain.Institution, error) {
	return s.repo.List(ctx, domain.KindBloodBank, strings.TrimSpace(gov))
}

func (s *Service) Summary(ctx context.Context, id int64) (domain.Summary, error) {
	inst, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Summary{}, err
	}
	return inst.Summary(), nil
}

func actorKind(kind domain.Kind) authdomain.ActorKind {
	if kind == domain.KindBloodBank {
		return authdomain.KindBloodBank
	}
	return authdomain.KindHospital
}

var _ ports.Service = (*Service)(nil)
