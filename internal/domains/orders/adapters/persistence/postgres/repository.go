package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventorypostgres "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/persistence/postgres"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table. The
// requested blood groups ride along as JSON; they are immutable after
// creation.
type orderRecord struct {
	ID          int64            `gorm:"primaryKey;column:id"`
	BloodGroup  []bloodGroupItem `gorm:"column:blood_group;serializer:json"`
	BloodBankID int64            `gorm:"column:blood_bank_id;index:idx_orders_bank_status"`
	HospitalID  int64            `gorm:"column:hospital_id;index:idx_orders_hospital_status"`
	FromParty   string           `gorm:"column:from_party;type:varchar(16)"`
	ToParty     string           `gorm:"column:to_party;type:varchar(16)"`
	Status      string           `gorm:"column:status;type:varchar(16);index:idx_orders_bank_status;index:idx_orders_hospital_status"`
	CreatedAt   time.Time        `gorm:"column:created_at;index"`
	UpdatedAt   time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type bloodGroupItem struct {
	BloodType string `json:"bloodType"`
	Count     int32  `json:"count"`
}

// Save inserts a new order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByInstitution returns orders referencing the institution on the
// given side.
func (r *Repository) ListByInstitution(ctx context.Context, party domain.Party, institutionID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	column := "blood_bank_id"
	if party == domain.PartyHospital {
		column = "hospital_id"
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records, column+" = ?", institutionID).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// Settle flips a pending order and, on approval, moves the stock: one
// transaction for the status and both inventories. The row lock plus
// the status-equals-pending guard make concurrent settlements of the
// same order resolve to exactly one winner.
func (r *Repository) Settle(ctx context.Context, orderID int64, decision domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if decision != domain.StatusApproved && decision != domain.StatusRejected {
		return nil, domain.ErrInvalidStatus
	}
	var settled *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if record.Status != string(domain.StatusPending) {
			return ports.ErrAlreadySettled
		}
		order := record.toDomain()
		if decision == domain.StatusApproved {
			if err := moveStockTx(tx, order); err != nil {
				return err
			}
		}
		result := tx.Model(&orderRecord{}).
			Where("id = ? AND status = ?", orderID, string(domain.StatusPending)).
			Updates(map[string]any{"status": string(decision), "updated_at": gorm.Expr("NOW()")})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrAlreadySettled
		}
		order.Status = decision
		settled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func moveStockTx(tx *gorm.DB, order *domain.Order) error {
	supply, err := inventorypostgres.LockStockTx(tx, order.SupplierID())
	if err != nil {
		return err
	}
	debited, err := inventorydomain.Debit(supply, order.BloodGroup)
	if err != nil {
		return err
	}
	received, err := inventorypostgres.LockStockTx(tx, order.ReceiverID())
	if err != nil {
		return err
	}
	credited := inventorydomain.Credit(received, order.BloodGroup)
	if err := inventorypostgres.ReplaceStockTx(tx, order.SupplierID(), debited); err != nil {
		return err
	}
	return inventorypostgres.ReplaceStockTx(tx, order.ReceiverID(), credited)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]bloodGroupItem, 0, len(order.BloodGroup))
	for _, e := range order.BloodGroup {
		items = append(items, bloodGroupItem{BloodType: string(e.BloodType), Count: e.Count})
	}
	return orderRecord{
		ID:          order.ID,
		BloodGroup:  items,
		BloodBankID: order.BloodBankID,
		HospitalID:  order.HospitalID,
		FromParty:   string(order.From),
		ToParty:     string(order.To),
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	entries := make([]inventorydomain.BloodGroupEntry, 0, len(r.BloodGroup))
	for _, item := range r.BloodGroup {
		entries = append(entries, inventorydomain.BloodGroupEntry{
			BloodType: inventorydomain.BloodType(item.BloodType),
			Count:     item.Count,
		})
	}
	return &domain.Order{
		ID:          r.ID,
		BloodGroup:  entries,
		BloodBankID: r.BloodBankID,
		HospitalID:  r.HospitalID,
		From:        domain.Party(r.FromParty),
		To:          domain.Party(r.ToParty),
		Status:      domain.Status(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}
