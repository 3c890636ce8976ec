package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"
)

var _ ports.SeededStore = (*Store)(nil)

// Store persists institution inventories in PostgreSQL using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed inventory store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	store := &Store{db: db}
	if db != nil {
		_ = db.AutoMigrate(&stockRecord{})
	}
	return store
}

// stockRecord maps one blood group entry to a relational row.
type stockRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	InstitutionID int64     `gorm:"column:institution_id;uniqueIndex:idx_stocks_institution_type"`
	BloodType     string    `gorm:"column:blood_type;type:varchar(8);uniqueIndex:idx_stocks_institution_type"`
	Count         int32     `gorm:"column:count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "institution_stocks" }

// Seed installs a zeroed inventory for a freshly registered institution.
func (s *Store) Seed(ctx context.Context, institutionID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	records := make([]stockRecord, 0, len(domain.BloodTypes))
	for _, t := range domain.BloodTypes {
		records = append(records, stockRecord{InstitutionID: institutionID, BloodType: string(t)})
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records).Error
}

func (s *Store) GetStock(ctx context.Context, institutionID int64) ([]domain.BloodGroupEntry, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return getStock(s.db.WithContext(ctx), institutionID)
}

func (s *Store) ReplaceStock(ctx context.Context, institutionID int64, entries []domain.BloodGroupEntry) ([]domain.BloodGroupEntry, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if err := domain.ValidateEntries(entries); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceStock(tx, institutionID, entries)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStock(ctx, institutionID)
}

func (s *Store) ApplyDelta(ctx context.Context, institutionID int64, deltas []domain.BloodGroupEntry) ([]domain.BloodGroupEntry, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var updated []domain.BloodGroupEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stock, err := lockStock(tx, institutionID)
		if err != nil {
			return err
		}
		next, err := domain.Shift(stock, deltas)
		if err != nil {
			return err
		}
		if err := replaceStock(tx, institutionID, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres inventory store not configured")
	}
	return nil
}

// LockStockTx reads an institution's stock under FOR UPDATE inside the
// caller's transaction. Order settlement uses it to join both
// inventories and the status flip into one commit.
func LockStockTx(tx *gorm.DB, institutionID int64) ([]domain.BloodGroupEntry, error) {
	return lockStock(tx, institutionID)
}

// ReplaceStockTx writes an institution's stock inside the caller's
// transaction.
func ReplaceStockTx(tx *gorm.DB, institutionID int64, entries []domain.BloodGroupEntry) error {
	return replaceStock(tx, institutionID, entries)
}

func getStock(tx *gorm.DB, institutionID int64) ([]domain.BloodGroupEntry, error) {
	var records []stockRecord
	if err := tx.Order("id asc").Find(&records, "institution_id = ?", institutionID).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ports.ErrStockNotFound
	}
	return toEntries(records), nil
}

// lockStock reads the institution's rows under FOR UPDATE so concurrent
// adjustments of the same inventory serialize on the database.
func lockStock(tx *gorm.DB, institutionID int64) ([]domain.BloodGroupEntry, error) {
	var records []stockRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id asc").
		Find(&records, "institution_id = ?", institutionID).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ports.ErrStockNotFound
	}
	return toEntries(records), nil
}

func replaceStock(tx *gorm.DB, institutionID int64, entries []domain.BloodGroupEntry) error {
	records := make([]stockRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, stockRecord{
			InstitutionID: institutionID,
			BloodType:     string(e.BloodType),
			Count:         e.Count,
		})
	}
	if len(records) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "institution_id"}, {Name: "blood_type"}},
		DoUpdates: clause.Assignments(map[string]any{"count": gorm.Expr("excluded.count"), "updated_at": gorm.Expr("NOW()")}),
	}).Create(&records).Error
}

func toEntries(records []stockRecord) []domain.BloodGroupEntry {
	entries := make([]domain.BloodGroupEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.BloodGroupEntry{BloodType: domain.BloodType(r.BloodType), Count: r.Count})
	}
	return entries
}
