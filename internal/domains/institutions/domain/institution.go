package domain

import (
	"errors"
	"strconv"
	"strings"
)

// Kind separates the two institution flavors sharing one aggregate.
type Kind string

const (
	KindHospital  Kind = "hospital"
	KindBloodBank Kind = "bank"
)

var (
	ErrInvalidKind  = errors.New("institution kind must be hospital or bank")
	ErrEmptyName    = errors.New("institution name is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	ErrEmptyPhone   = errors.New("phone is required")
	ErrInvalidGov   = errors.New("governorate must be between 1 and 28")
	ErrInvalidCity  = errors.New("city must be between 1 and 100")
	ErrEmptyAddress = errors.New("address description is required")
)

// Institution is a hospital or blood bank holding a blood inventory.
type Institution struct {
	ID           int64
	Kind         Kind
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Gov          string
	City         string
	Address      string
}

// Summary carries the display fields other contexts attach to their
// listings.
type Summary struct {
	ID      int64
	Name    string
	Phone   string
	Address string
}

// NewInstitution builds an institution ensuring required invariants.
// The password is validated separately and stored as a hash by the
// application layer.
func NewInstitution(kind Kind, name, email, phone, gov, city, address string) (*Institution, error) {
	inst := &Institution{}
	if err := inst.SetKind(kind); err != nil {
		return nil, err
	}
	if err := inst.SetName(name); err != nil {
		return nil, err
	}
	if err := inst.SetEmail(email); err != nil {
		return nil, err
	}
	if err := inst.SetPhone(phone); err != nil {
		return nil, err
	}
	if err := inst.SetGov(gov); err != nil {
		return nil, err
	}
	if err := inst.SetCity(city); err != nil {
		return nil, err
	}
	if err := inst.SetAddress(address); err != nil {
		return nil, err
	}
	return inst, nil
}

func (i *Institution) SetKind(kind Kind) error {
	switch kind {
	case KindHospital, KindBloodBank:
		i.Kind = kind
		return nil
	default:
		return ErrInvalidKind
	}
}

func (i *Institution) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	i.Name = name
	return nil
}

func (i *Institution) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	i.Email = strings.ToLower(email)
	return nil
}

func (i *Institution) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrEmptyPhone
	}
	i.Phone = phone
	return nil
}

func (i *Institution) SetGov(gov string) error {
	if !inNumericRange(gov, 1, 28) {
		return ErrInvalidGov
	}
	i.Gov = strings.TrimSpace(gov)
	return nil
}

// SetCity accepts an empty city: blood banks register without one.
func (i *Institution) SetCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		i.City = ""
		return nil
	}
	if !inNumericRange(city, 1, 100) {
		return ErrInvalidCity
	}
	i.City = city
	return nil
}

func (i *Institution) SetAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrEmptyAddress
	}
	i.Address = address
	return nil
}

// Summary projects the display fields.
func (i *Institution) Summary() Summary {
	return Summary{ID: i.ID, Name: i.Name, Phone: i.Phone, Address: i.Address}
}

// ValidatePassword enforces the plaintext password policy before hashing.
func ValidatePassword(password string) error {
	if len(strings.TrimSpace(password)) < 8 {
		return ErrWeakPassword
	}
	return nil
}

func inNumericRange(raw string, min, max int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return n >= min && n <= max
}
