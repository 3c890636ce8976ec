package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
)

var (
	_ ports.UrgentCallRepository = (*UrgentCallRepository)(nil)
	_ ports.BloodDriveRepository = (*BloodDriveRepository)(nil)
)

// UrgentCallRepository persists appeals in PostgreSQL using GORM.
type UrgentCallRepository struct {
	db *gorm.DB
}

func NewUrgentCallRepository(db *gorm.DB) *UrgentCallRepository {
	repo := &UrgentCallRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&urgentCallRecord{})
	}
	return repo
}

type urgentCallRecord struct {
	ID          int64            `gorm:"primaryKey;column:id"`
	HospitalID  int64            `gorm:"column:hospital_id;index"`
	Gov         string           `gorm:"column:gov;type:varchar(8);index"`
	City        string           `gorm:"column:city;type:varchar(8)"`
	Description string           `gorm:"column:description"`
	BloodGroup  []bloodGroupItem `gorm:"column:blood_group;serializer:json"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
}

func (urgentCallRecord) TableName() string { return "urgent_calls" }

type bloodGroupItem struct {
	BloodType string `json:"bloodType"`
	Count     int32  `json:"count"`
}

func (r *UrgentCallRepository) Save(ctx context.Context, call *domain.UrgentCall) (*domain.UrgentCall, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres urgent call repository not configured")
	}
	if call == nil {
		return nil, errors.New("urgent call is nil")
	}
	items := make([]bloodGroupItem, 0, len(call.BloodGroup))
	for _, e := range call.BloodGroup {
		items = append(items, bloodGroupItem{BloodType: string(e.BloodType), Count: e.Count})
	}
	record := urgentCallRecord{
		ID:          call.ID,
		HospitalID:  call.HospitalID,
		Gov:         call.Gov,
		City:        call.City,
		Description: call.Description,
		BloodGroup:  items,
		CreatedAt:   call.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *UrgentCallRepository) List(ctx context.Context) ([]*domain.UrgentCall, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres urgent call repository not configured")
	}
	var records []urgentCallRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.UrgentCall, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *UrgentCallRepository) Delete(ctx context.Context, id int64) error {
	if r == nil || r.db == nil {
		return errors.New("postgres urgent call repository not configured")
	}
	result := r.db.WithContext(ctx).Delete(&urgentCallRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCampaignNotFound
	}
	return nil
}

func (r urgentCallRecord) toDomain() *domain.UrgentCall {
	entries := make([]inventorydomain.BloodGroupEntry, 0, len(r.BloodGroup))
	for _, item := range r.BloodGroup {
		entries = append(entries, inventorydomain.BloodGroupEntry{
			BloodType: inventorydomain.BloodType(item.BloodType),
			Count:     item.Count,
		})
	}
	return &domain.UrgentCall{
		ID:          r.ID,
		HospitalID:  r.HospitalID,
		Gov:         r.Gov,
		City:        r.City,
		Description: r.Description,
		BloodGroup:  entries,
		CreatedAt:   r.CreatedAt,
	}
}

// BloodDriveRepository persists drives in PostgreSQL using GORM.
type BloodDriveRepository struct {
	db *gorm.DB
}

func NewBloodDriveRepository(db *gorm.DB) *BloodDriveRepository {
	repo := &BloodDriveRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&bloodDriveRecord{})
	}
	return repo
}

type bloodDriveRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	BloodBankID int64     `gorm:"column:blood_bank_id;index"`
	StartDate   time.Time `gorm:"column:start_date"`
	EndDate     time.Time `gorm:"column:end_date"`
	Phone       string    `gorm:"column:phone"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (bloodDriveRecord) TableName() string { return "blood_drives" }

func (r *BloodDriveRepository) Save(ctx context.Context, drive *domain.BloodDrive) (*domain.BloodDrive, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres blood drive repository not configured")
	}
	if drive == nil {
		return nil, errors.New("blood drive is nil")
	}
	record := bloodDriveRecord{
		ID:          drive.ID,
		BloodBankID: drive.BloodBankID,
		StartDate:   drive.StartDate,
		EndDate:     drive.EndDate,
		Phone:       drive.Phone,
		Description: drive.Description,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *BloodDriveRepository) List(ctx context.Context) ([]*domain.BloodDrive, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres blood drive repository not configured")
	}
	var records []bloodDriveRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.BloodDrive, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r bloodDriveRecord) toDomain() *domain.BloodDrive {
	return &domain.BloodDrive{
		ID:          r.ID,
		BloodBankID: r.BloodBankID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Phone:       r.Phone,
		Description: r.Description,
	}
}
