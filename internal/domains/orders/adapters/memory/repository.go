package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Settlement
// serializes on the repository mutex, so concurrent settle calls on
// the same order resolve to exactly one winner.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	stock  inventoryports.Store
	nextID int64
}

func NewRepository(stock inventoryports.Store) *Repository {
	return &Repository{orders: map[int64]*domain.Order{}, stock: stock}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByInstitution(_ context.Context, party domain.Party, institutionID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if party == domain.PartyHospital && order.HospitalID == institutionID ||
			party == domain.PartyBloodBank && order.BloodBankID == institutionID {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Settle(ctx context.Context, orderID int64, decision domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != domain.StatusPending {
		return nil, ports.ErrAlreadySettled
	}
	if decision == domain.StatusApproved {
		if err := r.moveStock(ctx, order); err != nil {
			return nil, err
		}
	}
	if err := order.Settle(decision); err != nil {
		return nil, err
	}
	return cloneOrder(order), nil
}

func (r *Repository) moveStock(ctx context.Context, order *domain.Order) error {
	supply, err := r.stock.GetStock(ctx, order.SupplierID())
	if err != nil {
		return err
	}
	debited, err := inventorydomain.Debit(supply, order.BloodGroup)
	if err != nil {
		return err
	}
	received, err := r.stock.GetStock(ctx, order.ReceiverID())
	if err != nil {
		return err
	}
	credited := inventorydomain.Credit(received, order.BloodGroup)
	if _, err := r.stock.ReplaceStock(ctx, order.SupplierID(), debited); err != nil {
		return err
	}
	_, err = r.stock.ReplaceStock(ctx, order.ReceiverID(), credited)
	return err
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.BloodGroup = append([]inventorydomain.BloodGroupEntry{}, order.BloodGroup...)
	return &clone
}
