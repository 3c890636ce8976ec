package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
)

var (
	ErrMissingHospital  = errors.New("hospital id is required")
	ErrMissingBloodBank = errors.New("blood bank id is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrEmptyPhone       = errors.New("phone is required")
	ErrInvalidGov       = errors.New("governorate must be between 1 and 28")
	ErrInvalidCity      = errors.New("city must be between 1 and 100")
	ErrInvalidPeriod    = errors.New("end date must not precede start date")
	ErrEmptyNeed        = errors.New("at least one needed blood group is required")
)

// UrgentCall is a hospital's public appeal for specific blood groups.
type UrgentCall struct {
	ID          int64
	HospitalID  int64
	Gov         string
	City        string
	Description string
	BloodGroup  []inventorydomain.BloodGroupEntry
	CreatedAt   time.Time
}

// NewUrgentCall validates and timestamps an appeal.
func NewUrgentCall(hospitalID int64, gov, city, description string, need []inventorydomain.BloodGroupEntry) (*UrgentCall, error) {
	if hospitalID <= 0 {
		return nil, ErrMissingHospital
	}
	if !inNumericRange(gov, 1, 28) {
		return nil, ErrInvalidGov
	}
	if !inNumericRange(city, 1, 100) {
		return nil, ErrInvalidCity
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if len(need) == 0 {
		return nil, ErrEmptyNeed
	}
	if err := inventorydomain.ValidateEntries(need); err != nil {
		return nil, err
	}
	return &UrgentCall{
		HospitalID:  hospitalID,
		Gov:         strings.TrimSpace(gov),
		City:        strings.TrimSpace(city),
		Description: description,
		BloodGroup:  append([]inventorydomain.BloodGroupEntry{}, need...),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// BloodDrive is a blood bank's scheduled collection event.
type BloodDrive struct {
	ID          int64
	BloodBankID int64
	StartDate   time.Time
	EndDate     time.Time
	Phone       string
	Description string
}

// NewBloodDrive validates a drive announcement.
func NewBloodDrive(bloodBankID int64, startDate, endDate time.Time, phone, description string) (*BloodDrive, error) {
	if bloodBankID <= 0 {
		return nil, ErrMissingBloodBank
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidPeriod
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrEmptyPhone
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	return &BloodDrive{
		BloodBankID: bloodBankID,
		StartDate:   startDate,
		EndDate:     endDate,
		Phone:       phone,
		Description: description,
	}, nil
}

func inNumericRange(raw string, min, max int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return n >= min && n <= max
}
