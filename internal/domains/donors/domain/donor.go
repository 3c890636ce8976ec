package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
)

// Gender matches the registration form values.
type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// MinimumDonationGap is the shortest allowed span between two
// donations by the same donor.
const MinimumDonationGap = 3 * 30 * 24 * time.Hour

// MinimumAge gates registration.
const MinimumAge = 18

var (
	ErrEmptyFirstName   = errors.New("first name is required")
	ErrEmptyLastName    = errors.New("last name is required")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrUnderage         = errors.New("donor must be at least 18 years old")
	ErrInvalidGender    = errors.New("gender must be m or f")
	ErrEmptyPhone       = errors.New("phone is required")
	ErrDuplicateDisease = errors.New("disease list contains duplicate values")
	ErrInvalidGov       = errors.New("governorate must be between 1 and 28")
	ErrInvalidCity      = errors.New("city must be between 1 and 100")

	ErrWeakPassword = errors.New("password must be at least 8 characters")

	ErrRecentDonation  = errors.New("last donation is less than three months old")
	ErrCriticalDisease = errors.New("donor carries a disqualifying disease")
)

// ValidatePassword enforces the plaintext password policy before hashing.
func ValidatePassword(password string) error {
	if len(strings.TrimSpace(password)) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Donor aggregates identity, eligibility inputs, and the running
// donation tally.
type Donor struct {
	ID               int64
	FirstName        string
	LastName         string
	Email            string
	PasswordHash     string
	BirthDate        time.Time
	Gender           Gender
	Phone            string
	BloodType        inventorydomain.BloodType
	Diseases         []string
	Gov              string
	City             string
	DonationTimes    int32
	LastDonationDate *time.Time
}

// Donation is one recorded blood bag.
type Donation struct {
	ID            int64
	DonorID       int64
	InstitutionID int64
	BloodType     inventorydomain.BloodType
	DonatedAt     time.Time
}

// NewDonor validates the registration fields. Password hashing happens
// in the application layer.
func NewDonor(firstName, lastName, email string, birthDate time.Time, gender Gender, phone string,
	bloodType inventorydomain.BloodType, diseases []string, gov, city string) (*Donor, error) {
	d := &Donor{}
	if err := d.SetName(firstName, lastName); err != nil {
		return nil, err
	}
	if err := d.SetEmail(email); err != nil {
		return nil, err
	}
	if err := d.SetBirthDate(birthDate, time.Now()); err != nil {
		return nil, err
	}
	if err := d.SetGender(gender); err != nil {
		return nil, err
	}
	if err := d.SetPhone(phone); err != nil {
		return nil, err
	}
	if err := d.SetBloodType(bloodType); err != nil {
		return nil, err
	}
	if err := d.SetDiseases(diseases); err != nil {
		return nil, err
	}
	if err := d.SetGov(gov); err != nil {
		return nil, err
	}
	if err := d.SetCity(city); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Donor) SetName(first, last string) error {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" {
		return ErrEmptyFirstName
	}
	if last == "" {
		return ErrEmptyLastName
	}
	d.FirstName, d.LastName = first, last
	return nil
}

func (d *Donor) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	d.Email = strings.ToLower(email)
	return nil
}

func (d *Donor) SetBirthDate(birthDate, now time.Time) error {
	if birthDate.After(now.AddDate(-MinimumAge, 0, 0)) {
		return ErrUnderage
	}
	d.BirthDate = birthDate
	return nil
}

func (d *Donor) SetGender(gender Gender) error {
	switch gender {
	case GenderMale, GenderFemale:
		d.Gender = gender
		return nil
	default:
		return ErrInvalidGender
	}
}

func (d *Donor) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrEmptyPhone
	}
	d.Phone = phone
	return nil
}

func (d *Donor) SetBloodType(bloodType inventorydomain.BloodType) error {
	if !bloodType.IsValid() {
		return inventorydomain.ErrUnknownBloodType
	}
	d.BloodType = bloodType
	return nil
}

func (d *Donor) SetDiseases(diseases []string) error {
	cleaned := make([]string, 0, len(diseases))
	seen := map[string]struct{}{}
	for _, raw := range diseases {
		disease := strings.ToLower(strings.TrimSpace(raw))
		if disease == "" {
			continue
		}
		if _, dup := seen[disease]; dup {
			return ErrDuplicateDisease
		}
		seen[disease] = struct{}{}
		cleaned = append(cleaned, disease)
	}
	d.Diseases = cleaned
	return nil
}

func (d *Donor) SetGov(gov string) error {
	if !inNumericRange(gov, 1, 28) {
		return ErrInvalidGov
	}
	d.Gov = strings.TrimSpace(gov)
	return nil
}

func (d *Donor) SetCity(city string) error {
	if !inNumericRange(city, 1, 100) {
		return ErrInvalidCity
	}
	d.City = strings.TrimSpace(city)
	return nil
}

// FullName joins the name parts for display projections.
func (d *Donor) FullName() string {
	return d.FirstName + " " + d.LastName
}

// CheckEligible reports whether the donor may donate at the given
// date. The gap rule compares against the last recorded donation; the
// disease rule compares against the configured critical list.
func (d *Donor) CheckEligible(at time.Time, criticalDiseases []string) error {
	if d.LastDonationDate != nil && at.Sub(*d.LastDonationDate) < MinimumDonationGap {
		return ErrRecentDonation
	}
	for _, disease := range d.Diseases {
		for _, critical := range criticalDiseases {
			if strings.EqualFold(disease, critical) {
				return ErrCriticalDisease
			}
		}
	}
	return nil
}

// RecordDonation bumps the tally after a donation is persisted.
func (d *Donor) RecordDonation(at time.Time) {
	donatedAt := at
	d.LastDonationDate = &donatedAt
	d.DonationTimes++
}

func inNumericRange(raw string, min, max int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return n >= min && n <= max
}
