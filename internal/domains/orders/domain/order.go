package domain

import (
	"errors"
	"time"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
)

// Party names one side of a transfer.
type Party string

const (
	PartyHospital  Party = "hospital"
	PartyBloodBank Party = "bank"
)

// Status enumerates the order lifecycle. An order is created pending
// and settles exactly once into approved or rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrInvalidParty       = errors.New("order side must be hospital or bank")
	ErrSameParty          = errors.New("order endpoints must differ")
	ErrEmptyRequest       = errors.New("order must request at least one blood group")
	ErrNonPositiveCount   = errors.New("requested count must be greater than zero")
	ErrMissingInstitution = errors.New("order must reference both a hospital and a blood bank")
	ErrInvalidStatus      = errors.New("order status is invalid")
	ErrNotPending         = errors.New("order already settled")
)

// Order is a transfer request of blood units between a hospital and a
// blood bank. By convention To is the supplying side whose stock gets
// debited at approval; From receives the units.
type Order struct {
	ID          int64
	BloodGroup  []inventorydomain.BloodGroupEntry
	BloodBankID int64
	HospitalID  int64
	From        Party
	To          Party
	Status      Status
	CreatedAt   time.Time
}

// NewOrder validates and constructs a pending order.
func NewOrder(bloodGroup []inventorydomain.BloodGroupEntry, bloodBankID, hospitalID int64, from, to Party) (*Order, error) {
	order := &Order{
		BloodGroup:  append([]inventorydomain.BloodGroupEntry{}, bloodGroup...),
		BloodBankID: bloodBankID,
		HospitalID:  hospitalID,
		From:        from,
		To:          to,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if !isValidParty(o.From) || !isValidParty(o.To) {
		return ErrInvalidParty
	}
	if o.From == o.To {
		return ErrSameParty
	}
	if o.BloodBankID <= 0 || o.HospitalID <= 0 {
		return ErrMissingInstitution
	}
	if len(o.BloodGroup) == 0 {
		return ErrEmptyRequest
	}
	if err := inventorydomain.ValidateEntries(o.BloodGroup); err != nil {
		return err
	}
	for _, e := range o.BloodGroup {
		if e.Count <= 0 {
			return ErrNonPositiveCount
		}
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// SupplierID resolves the institution whose stock the order draws down.
func (o *Order) SupplierID() int64 {
	if o.To == PartyHospital {
		return o.HospitalID
	}
	return o.BloodBankID
}

// ReceiverID resolves the institution credited at approval.
func (o *Order) ReceiverID() int64 {
	if o.From == PartyHospital {
		return o.HospitalID
	}
	return o.BloodBankID
}

// Settle transitions the order exactly once. Any attempt on a
// non-pending order fails, regardless of the requested status.
func (o *Order) Settle(decision Status) error {
	if decision != StatusApproved && decision != StatusRejected {
		return ErrInvalidStatus
	}
	if o.Status != StatusPending {
		return ErrNotPending
	}
	o.Status = decision
	return nil
}

func isValidParty(p Party) bool {
	return p == PartyHospital || p == PartyBloodBank
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}
