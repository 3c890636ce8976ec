package application

import (
	"context"
	"errors"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
)

// Service orchestrates order creation and settlement.
type Service struct {
	repo      ports.Repository
	stock     inventoryports.Store
	directory ports.InstitutionDirectory
}

func NewService(repo ports.Repository, stock inventoryports.Store, directory ports.InstitutionDirectory) *Service {
	return &Service{repo: repo, stock: stock, directory: directory}
}

// Create validates the request against the supplier's current stock and
// persists a pending order. No stock moves here; that happens at
// settlement.
func (s *Service) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(input.BloodGroup, input.BloodBankID, input.HospitalID, input.From, input.To)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.directory.Summary(ctx, order.SupplierID()); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.directory.Summary(ctx, order.ReceiverID()); err != nil {
		return nil, mapError(err)
	}
	supply, err := s.stock.GetStock(ctx, order.SupplierID())
	if err != nil {
		return nil, mapError(err)
	}
	if err := inventorydomain.CheckSufficient(supply, order.BloodGroup); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

// Settle approves or rejects a pending order. Only the supplying
// institution may settle. The stock mutation itself runs inside the
// repository so that the status flip and both inventory writes commit
// together; a second attempt always fails with ErrAlreadySettled.
func (s *Service) Settle(ctx context.Context, orderID int64, caller ports.Caller, decision domain.Status) (*domain.Order, error) {
	if decision != domain.StatusApproved && decision != domain.StatusRejected {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusPending {
		return nil, ports.ErrAlreadySettled
	}
	if caller.Party != order.To || caller.InstitutionID != order.SupplierID() {
		return nil, ErrSettlementForbidden
	}
	return s.repo.Settle(ctx, orderID, decision)
}

// List returns the caller's orders enriched with both institutions'
// display fields.
func (s *Service) List(ctx context.Context, caller ports.Caller) ([]ports.OrderView, error) {
	orders, err := s.repo.ListByInstitution(ctx, caller.Party, caller.InstitutionID)
	if err != nil {
		return nil, err
	}
	views := make([]ports.OrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.enrich(ctx, order)
		if err != nil {
			if errors.Is(err, ports.ErrInstitutionNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns a single order, but only when both counterpart
// institutions still resolve.
func (s *Service) Get(ctx context.Context, orderID int64) (*ports.OrderView, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view, err := s.enrich(ctx, order)
	if err != nil {
		if errors.Is(err, ports.ErrInstitutionNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (s *Service) enrich(ctx context.Context, order *domain.Order) (ports.OrderView, error) {
	hospital, err := s.directory.Summary(ctx, order.HospitalID)
	if err != nil {
		return ports.OrderView{}, err
	}
	bank, err := s.directory.Summary(ctx, order.BloodBankID)
	if err != nil {
		return ports.OrderView{}, err
	}
	return ports.OrderView{Order: order, Hospital: hospital, BloodBank: bank}, nil
}

var _ ports.Service = (*Service)(nil)
