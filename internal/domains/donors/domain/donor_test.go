package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
)

func validBirthDate() time.Time {
	return time.Now().AddDate(-30, 0, 0)
}

func newValidDonor(t *testing.T) *Donor {
	t.Helper()
	donor, err := NewDonor("Ada", "Lovelace", "ada@example.com", validBirthDate(),
		GenderFemale, "01000000000", inventorydomain.OPositive, nil, "5", "12")
	require.NoError(t, err)
	return donor
}

func TestNewDonor_Valid(t *testing.T) {
	donor := newValidDonor(t)
	require.Equal(t, "ada@example.com", donor.Email)
	require.Equal(t, "Ada Lovelace", donor.FullName())
	require.Zero(t, donor.DonationTimes)
	require.Nil(t, donor.LastDonationDate)
}

func TestNewDonor_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*testing.T) error
		wantErr error
	}{
		{"missing first name", func(t *testing.T) error {
			_, err := NewDonor("", "Lovelace", "ada@example.com", validBirthDate(), GenderFemale, "0100", inventorydomain.OPositive, nil, "5", "12")
			return err
		}, ErrEmptyFirstName},
		{"bad email", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "not-an-email", validBirthDate(), GenderFemale, "0100", inventorydomain.OPositive, nil, "5", "12")
			return err
		}, ErrInvalidEmail},
		{"underage", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "ada@example.com", time.Now().AddDate(-17, 0, 0), GenderFemale, "0100", inventorydomain.OPositive, nil, "5", "12")
			return err
		}, ErrUnderage},
		{"bad gender", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "ada@example.com", validBirthDate(), Gender("x"), "0100", inventorydomain.OPositive, nil, "5", "12")
			return err
		}, ErrInvalidGender},
		{"bad blood type", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "ada@example.com", validBirthDate(), GenderFemale, "0100", inventorydomain.BloodType("C+"), nil, "5", "12")
			return err
		}, inventorydomain.ErrUnknownBloodType},
		{"duplicate disease", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "ada@example.com", validBirthDate(), GenderFemale, "0100", inventorydomain.OPositive, []string{"HCV", "hcv"}, "5", "12")
			return err
		}, ErrDuplicateDisease},
		{"gov out of range", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "ada@example.com", validBirthDate(), GenderFemale, "0100", inventorydomain.OPositive, nil, "29", "12")
			return err
		}, ErrInvalidGov},
		{"city out of range", func(t *testing.T) error {
			_, err := NewDonor("Ada", "Lovelace", "ada@example.com", validBirthDate(), GenderFemale, "0100", inventorydomain.OPositive, nil, "5", "101")
			return err
		}, ErrInvalidCity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.mutate(t), tc.wantErr)
		})
	}
}

func TestSetDiseases_NormalizesCase(t *testing.T) {
	donor := newValidDonor(t)
	require.NoError(t, donor.SetDiseases([]string{" HCV ", "Diabetes"}))
	require.Equal(t, []string{"hcv", "diabetes"}, donor.Diseases)
}

func TestCheckEligible_FirstDonation(t *testing.T) {
	donor := newValidDonor(t)
	require.NoError(t, donor.CheckEligible(time.Now(), []string{"hiv"}))
}

func TestCheckEligible_RecentDonation(t *testing.T) {
	donor := newValidDonor(t)
	now := time.Now()

	recent := now.AddDate(0, -1, 0)
	donor.LastDonationDate = &recent
	require.ErrorIs(t, donor.CheckEligible(now, nil), ErrRecentDonation)

	old := now.AddDate(0, -4, 0)
	donor.LastDonationDate = &old
	require.NoError(t, donor.CheckEligible(now, nil))
}

func TestCheckEligible_CriticalDisease(t *testing.T) {
	donor := newValidDonor(t)
	require.NoError(t, donor.SetDiseases([]string{"HBV"}))

	require.ErrorIs(t, donor.CheckEligible(time.Now(), []string{"hiv", "hbv"}), ErrCriticalDisease)
	require.NoError(t, donor.CheckEligible(time.Now(), []string{"hiv"}))
}

func TestRecordDonation_BumpsTally(t *testing.T) {
	donor := newValidDonor(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	donor.RecordDonation(at)
	require.Equal(t, int32(1), donor.DonationTimes)
	require.NotNil(t, donor.LastDonationDate)
	require.True(t, donor.LastDonationDate.Equal(at))

	donor.RecordDonation(at.AddDate(0, 4, 0))
	require.Equal(t, int32(2), donor.DonationTimes)
}
