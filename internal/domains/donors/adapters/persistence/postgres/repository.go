package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
)

var (
	_ ports.Repository         = (*Repository)(nil)
	_ ports.DonationRepository = (*DonationRepository)(nil)
)

// Repository persists donors in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&donorRecord{})
	}
	return repo
}

// donorRecord maps the donor aggregate to a relational table.
type donorRecord struct {
	ID               int64          `gorm:"primaryKey;column:id"`
	FirstName        string         `gorm:"column:first_name"`
	LastName         string         `gorm:"column:last_name"`
	Email            string         `gorm:"column:email;uniqueIndex"`
	PasswordHash     string         `gorm:"column:password_hash"`
	BirthDate        time.Time      `gorm:"column:birth_date"`
	Gender           string         `gorm:"column:gender;type:varchar(1)"`
	Phone            string         `gorm:"column:phone"`
	BloodType        string         `gorm:"column:blood_type;type:varchar(3)"`
	Diseases         pq.StringArray `gorm:"column:diseases;type:text[]"`
	Gov              string         `gorm:"column:gov;type:varchar(8);index"`
	City             string         `gorm:"column:city;type:varchar(8)"`
	DonationTimes    int32          `gorm:"column:donation_times;index"`
	LastDonationDate *time.Time     `gorm:"column:last_donation_date"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (donorRecord) TableName() string { return "donors" }

// Save inserts or updates a donor.
func (r *Repository) Save(ctx context.Context, donor *domain.Donor) (*domain.Donor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, errors.New("donor is nil")
	}
	record := toRecord(donor)
	var err error
	if record.ID == 0 {
		err = r.db.WithContext(ctx).Create(&record).Error
	} else {
		err = r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"first_name":         record.FirstName,
					"last_name":          record.LastName,
					"password_hash":      record.PasswordHash,
					"phone":              record.Phone,
					"diseases":           record.Diseases,
					"gov":                record.Gov,
					"city":               record.City,
					"donation_times":     record.DonationTimes,
					"last_donation_date": record.LastDonationDate,
					"updated_at":         gorm.Expr("NOW()"),
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

// GetByID fetches a donor by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Donor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record donorRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByEmail fetches a donor by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Donor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record donorRecord
	err := r.db.WithContext(ctx).First(&record, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListTop returns donors ordered by donation count, highest first.
func (r *Repository) ListTop(ctx context.Context, limit int) ([]*domain.Donor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []donorRecord
	err := r.db.WithContext(ctx).
		Order("donation_times desc, id asc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Donor, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres donor repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

func toRecord(donor *domain.Donor) donorRecord {
	return donorRecord{
		ID:               donor.ID,
		FirstName:        donor.FirstName,
		LastName:         donor.LastName,
		Email:            donor.Email,
		PasswordHash:     donor.PasswordHash,
		BirthDate:        donor.BirthDate,
		Gender:           string(donor.Gender),
		Phone:            donor.Phone,
		BloodType:        string(donor.BloodType),
		Diseases:         pq.StringArray(donor.Diseases),
		Gov:              donor.Gov,
		City:             donor.City,
		DonationTimes:    donor.DonationTimes,
		LastDonationDate: donor.LastDonationDate,
	}
}

func (r donorRecord) toDomain() *domain.Donor {
	return &domain.Donor{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		BirthDate:        r.BirthDate,
		Gender:           domain.Gender(r.Gender),
		Phone:            r.Phone,
		BloodType:        inventorydomain.BloodType(r.BloodType),
		Diseases:         []string(r.Diseases),
		Gov:              r.Gov,
		City:             r.City,
		DonationTimes:    r.DonationTimes,
		LastDonationDate: r.LastDonationDate,
	}
}

// DonationRepository persists blood bags in PostgreSQL.
type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	repo := &DonationRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&donationRecord{})
	}
	return repo
}

type donationRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	DonorID       int64     `gorm:"column:donor_id;index"`
	InstitutionID int64     `gorm:"column:institution_id;index"`
	BloodType     string    `gorm:"column:blood_type;type:varchar(3)"`
	DonatedAt     time.Time `gorm:"column:donated_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (donationRecord) TableName() string { return "donations" }

func (r *DonationRepository) Save(ctx context.Context, donation *domain.Donation) (*domain.Donation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres donation repository not configured")
	}
	if donation == nil {
		return nil, errors.New("donation is nil")
	}
	record := donationRecord{
		ID:            donation.ID,
		DonorID:       donation.DonorID,
		InstitutionID: donation.InstitutionID,
		BloodType:     string(donation.BloodType),
		DonatedAt:     donation.DonatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DonationRepository) ListByDonor(ctx context.Context, donorID int64) ([]*domain.Donation, error) {
	return r.list(ctx, "donor_id = ?", donorID)
}

func (r *DonationRepository) ListByInstitution(ctx context.Context, institutionID int64) ([]*domain.Donation, error) {
	return r.list(ctx, "institution_id = ?", institutionID)
}

func (r *DonationRepository) list(ctx context.Context, cond string, arg int64) ([]*domain.Donation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres donation repository not configured")
	}
	var records []donationRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records, cond, arg).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Donation, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r donationRecord) toDomain() *domain.Donation {
	return &domain.Donation{
		ID:            r.ID,
		DonorID:       r.DonorID,
		InstitutionID: r.InstitutionID,
		BloodType:     inventorydomain.BloodType(r.BloodType),
		DonatedAt:     r.DonatedAt,
	}
}
