package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists institutions in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&institutionRecord{})
	}
	return repo
}

// institutionRecord maps the institution aggregate to a relational table.
type institutionRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Kind         string    `gorm:"column:kind;type:varchar(16);uniqueIndex:idx_institutions_kind_email;index"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex:idx_institutions_kind_email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Phone        string    `gorm:"column:phone"`
	Gov          string    `gorm:"column:gov;type:varchar(8);index"`
	City         string    `gorm:"column:city;type:varchar(8)"`
	Address      string    `gorm:"column:address_description"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (institutionRecord) TableName() string { return "institutions" }

// Save inserts or updates an institution.
func (r *Repository) Save(ctx context.Context, inst *domain.Institution) (*domain.Institution, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, errors.New("institution is nil")
	}
	record := toRecord(inst)
	var err error
	if record.ID == 0 {
		err = r.db.WithContext(ctx).Create(&record).Error
	} else {
		err = r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"name":                record.Name,
					"password_hash":       record.PasswordHash,
					"phone":               record.Phone,
					"gov":                 record.Gov,
					"city":                record.City,
					"address_description": record.Address,
					"updated_at":          gorm.Expr("NOW()"),
				}),
			}).Create(&record).Error
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrEmailTaken
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an institution by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Institution, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record institutionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByEmail fetches an institution by kind and email.
func (r *Repository) GetByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Institution, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record institutionRecord
	err := r.db.WithContext(ctx).
		First(&record, "kind = ? AND email = ?", string(kind), strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns institutions of a kind, optionally scoped to a governorate.
func (r *Repository) List(ctx context.Context, kind domain.Kind, gov string) ([]*domain.Institution, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Where("kind = ?", string(kind))
	if gov != "" {
		query = query.Where("gov = ?", gov)
	}
	var records []institutionRecord
	if err := query.Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Institution, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres institution repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

func toRecord(inst *domain.Institution) institutionRecord {
	return institutionRecord{
		ID:           inst.ID,
		Kind:         string(inst.Kind),
		Name:         inst.Name,
		Email:        inst.Email,
		PasswordHash: inst.PasswordHash,
		Phone:        inst.Phone,
		Gov:          inst.Gov,
		City:         inst.City,
		Address:      inst.Address,
	}
}

func (r institutionRecord) toDomain() *domain.Institution {
	return &domain.Institution{
		ID:           r.ID,
		Kind:         domain.Kind(r.Kind),
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Phone:        r.Phone,
		Gov:          r.Gov,
		City:         r.City,
		Address:      r.Address,
	}
}
