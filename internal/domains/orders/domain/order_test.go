package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
)

func TestNewOrder_Defaults(t *testing.T) {
	order, err := NewOrder(
		[]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: 3}},
		2, 1, PartyBloodBank, PartyHospital,
	)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNewOrder_Invalid(t *testing.T) {
	request := []inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: 1}}

	_, err := NewOrder(request, 2, 1, PartyHospital, PartyHospital)
	require.ErrorIs(t, err, ErrSameParty)

	_, err = NewOrder(request, 0, 1, PartyBloodBank, PartyHospital)
	require.ErrorIs(t, err, ErrMissingInstitution)

	_, err = NewOrder(nil, 2, 1, PartyBloodBank, PartyHospital)
	require.ErrorIs(t, err, ErrEmptyRequest)

	_, err = NewOrder([]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: 0}}, 2, 1, PartyBloodBank, PartyHospital)
	require.ErrorIs(t, err, ErrNonPositiveCount)

	_, err = NewOrder([]inventorydomain.BloodGroupEntry{
		{BloodType: inventorydomain.OPositive, Count: 1},
		{BloodType: inventorydomain.OPositive, Count: 2},
	}, 2, 1, PartyBloodBank, PartyHospital)
	require.ErrorIs(t, err, inventorydomain.ErrDuplicateBloodType)
}

func TestSupplierAndReceiver(t *testing.T) {
	order, err := NewOrder(
		[]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: 3}},
		2, 1, PartyBloodBank, PartyHospital,
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.SupplierID(), "to=hospital supplies")
	assert.Equal(t, int64(2), order.ReceiverID(), "from=bank receives")

	order.From, order.To = PartyHospital, PartyBloodBank
	assert.Equal(t, int64(2), order.SupplierID())
	assert.Equal(t, int64(1), order.ReceiverID())
}

func TestSettle_ExactlyOnce(t *testing.T) {
	order, err := NewOrder(
		[]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: 3}},
		2, 1, PartyBloodBank, PartyHospital,
	)
	require.NoError(t, err)

	require.NoError(t, order.Settle(StatusApproved))
	assert.Equal(t, StatusApproved, order.Status)

	require.ErrorIs(t, order.Settle(StatusRejected), ErrNotPending)
	require.ErrorIs(t, order.Settle(StatusApproved), ErrNotPending)
	assert.Equal(t, StatusApproved, order.Status)
}

func TestSettle_RejectsPendingAsDecision(t *testing.T) {
	order, err := NewOrder(
		[]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: 3}},
		2, 1, PartyBloodBank, PartyHospital,
	)
	require.NoError(t, err)
	require.ErrorIs(t, order.Settle(StatusPending), ErrInvalidStatus)
}
