package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&institutionRecord{},
		&stockRecord{},
		&orderRecord{},
		&donorRecord{},
		&donationRecord{},
		&urgentCallRecord{},
		&bloodDriveRecord{},
		&sessionRecord{},
	)
}

// Institution schema mirrors the institutions Postgres adapter.
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

// Stock schema mirrors the inventory Postgres adapter.
type stockRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	InstitutionID int64     `gorm:"column:institution_id;uniqueIndex:idx_stocks_institution_type"`
	BloodType     string    `gorm:"column:blood_type;type:varchar(8);uniqueIndex:idx_stocks_institution_type"`
	Count         int32     `gorm:"column:count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "institution_stocks" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	BloodGroup  string    `gorm:"column:blood_group"`
	BloodBankID int64     `gorm:"column:blood_bank_id;index:idx_orders_bank_status"`
	HospitalID  int64     `gorm:"column:hospital_id;index:idx_orders_hospital_status"`
	FromParty   string    `gorm:"column:from_party;type:varchar(16)"`
	ToParty     string    `gorm:"column:to_party;type:varchar(16)"`
	Status      string    `gorm:"column:status;type:varchar(16);index:idx_orders_bank_status;index:idx_orders_hospital_status"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Donor schema mirrors the donors Postgres adapter.
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

// Donation schema mirrors the donors Postgres adapter.
type donationRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	DonorID       int64     `gorm:"column:donor_id;index"`
	InstitutionID int64     `gorm:"column:institution_id;index"`
	BloodType     string    `gorm:"column:blood_type;type:varchar(3)"`
	DonatedAt     time.Time `gorm:"column:donated_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (donationRecord) TableName() string { return "donations" }

// Urgent call schema mirrors the campaigns Postgres adapter.
type urgentCallRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	HospitalID  int64     `gorm:"column:hospital_id;index"`
	Gov         string    `gorm:"column:gov;type:varchar(8);index"`
	City        string    `gorm:"column:city;type:varchar(8)"`
	Description string    `gorm:"column:description"`
	BloodGroup  string    `gorm:"column:blood_group"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (urgentCallRecord) TableName() string { return "urgent_calls" }

// Blood drive schema mirrors the campaigns Postgres adapter.
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

// Session schema mirrors the auth Postgres adapter.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	ActorKind string     `gorm:"column:actor_kind;type:varchar(16);index:idx_sessions_actor"`
	ActorID   int64      `gorm:"column:actor_id;index:idx_sessions_actor"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "actor_sessions" }
