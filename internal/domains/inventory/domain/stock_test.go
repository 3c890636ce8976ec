package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedStock_AllTypesAtZero(t *testing.T) {
	stock := SeedStock()
	require.Len(t, stock, 8)
	for _, entry := range stock {
		assert.True(t, entry.BloodType.IsValid())
		assert.Zero(t, entry.Count)
	}
}

func TestValidateEntries(t *testing.T) {
	require.NoError(t, ValidateEntries([]BloodGroupEntry{{OPositive, 3}, {ABNegative, 0}}))

	err := ValidateEntries([]BloodGroupEntry{{BloodType: "C+", Count: 1}})
	require.ErrorIs(t, err, ErrUnknownBloodType)

	err = ValidateEntries([]BloodGroupEntry{{OPositive, -1}})
	require.ErrorIs(t, err, ErrNegativeCount)

	err = ValidateEntries([]BloodGroupEntry{{OPositive, 1}, {OPositive, 2}})
	require.ErrorIs(t, err, ErrDuplicateBloodType)
}

func TestCheckSufficient_AbsentTypeCountsAsZero(t *testing.T) {
	stock := []BloodGroupEntry{{OPositive, 5}}

	require.NoError(t, CheckSufficient(stock, []BloodGroupEntry{{OPositive, 5}}))
	require.ErrorIs(t, CheckSufficient(stock, []BloodGroupEntry{{OPositive, 6}}), ErrInsufficientStock)
	require.ErrorIs(t, CheckSufficient(stock, []BloodGroupEntry{{ANegative, 1}}), ErrInsufficientStock)
}

func TestDebit_DoesNotAliasInput(t *testing.T) {
	stock := []BloodGroupEntry{{OPositive, 5}, {APositive, 2}}

	debited, err := Debit(stock, []BloodGroupEntry{{OPositive, 3}})
	require.NoError(t, err)
	assert.Equal(t, []BloodGroupEntry{{OPositive, 2}, {APositive, 2}}, debited)
	assert.Equal(t, int32(5), stock[0].Count, "input stock must stay untouched")
}

func TestDebit_Underflow(t *testing.T) {
	stock := []BloodGroupEntry{{OPositive, 2}}
	_, err := Debit(stock, []BloodGroupEntry{{OPositive, 3}})
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCredit_CreatesMissingEntries(t *testing.T) {
	stock := []BloodGroupEntry{{OPositive, 1}}

	credited := Credit(stock, []BloodGroupEntry{{OPositive, 2}, {BNegative, 4}})
	assert.Contains(t, credited, BloodGroupEntry{OPositive, 3})
	assert.Contains(t, credited, BloodGroupEntry{BNegative, 4})
}

func TestDebitCredit_ConservesTotals(t *testing.T) {
	source := []BloodGroupEntry{{OPositive, 5}, {APositive, 3}}
	dest := []BloodGroupEntry{{OPositive, 1}}
	requested := []BloodGroupEntry{{OPositive, 3}, {APositive, 1}}

	newSource, err := Debit(source, requested)
	require.NoError(t, err)
	newDest := Credit(dest, requested)

	totals := map[BloodType]int32{}
	for _, e := range append(append([]BloodGroupEntry{}, newSource...), newDest...) {
		totals[e.BloodType] += e.Count
	}
	assert.Equal(t, int32(6), totals[OPositive])
	assert.Equal(t, int32(3), totals[APositive])
}

func TestShift_RejectsUnderflow(t *testing.T) {
	stock := []BloodGroupEntry{{OPositive, 2}}

	shifted, err := Shift(stock, []BloodGroupEntry{{OPositive, 1}})
	require.NoError(t, err)
	assert.Equal(t, []BloodGroupEntry{{OPositive, 3}}, shifted)

	_, err = Shift(stock, []BloodGroupEntry{{OPositive, -3}})
	require.ErrorIs(t, err, ErrStockUnderflow)
}

func TestMerge_SumsAndClampsAtZero(t *testing.T) {
	stock := []BloodGroupEntry{{OPositive, 2}, {APositive, 1}}

	merged := Merge(stock, []BloodGroupEntry{{OPositive, 3}, {APositive, -5}})
	assert.Contains(t, merged, BloodGroupEntry{OPositive, 5})
	assert.Contains(t, merged, BloodGroupEntry{APositive, 0})
}
