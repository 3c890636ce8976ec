package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	campaignsmemory "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/adapters/memory"
	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
)

const (
	hospitalID = int64(3)
	bankID     = int64(4)
)

type fakeDirectory struct{}

func (fakeDirectory) Summary(_ context.Context, id int64) (ports.InstitutionSummary, error) {
	switch id {
	case hospitalID:
		return ports.InstitutionSummary{ID: id, Name: "General Hospital"}, nil
	case bankID:
		return ports.InstitutionSummary{ID: id, Name: "Central Blood Bank"}, nil
	default:
		return ports.InstitutionSummary{}, ports.ErrInstitutionNotFound
	}
}

func newTestService() *Service {
	return NewService(campaignsmemory.NewUrgentCallRepository(), campaignsmemory.NewBloodDriveRepository(), fakeDirectory{})
}

func validCall() ports.PostUrgentCallInput {
	return ports.PostUrgentCallInput{
		HospitalID:  hospitalID,
		Gov:         "5",
		City:        "12",
		Description: "urgent need after mass casualty event",
		BloodGroup:  []inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.ONegative, Count: 10}},
	}
}

func TestPostUrgentCall_Persists(t *testing.T) {
	svc := newTestService()

	call, err := svc.PostUrgentCall(context.Background(), validCall())
	require.NoError(t, err)
	require.NotZero(t, call.ID)
	require.False(t, call.CreatedAt.IsZero())

	views, err := svc.ListUrgentCalls(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "General Hospital", views[0].Hospital.Name)
}

func TestPostUrgentCall_Invalid(t *testing.T) {
	svc := newTestService()

	input := validCall()
	input.Description = "  "
	_, err := svc.PostUrgentCall(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyDescription)

	input = validCall()
	input.BloodGroup = nil
	_, err = svc.PostUrgentCall(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrEmptyNeed)

	input = validCall()
	input.HospitalID = 99
	_, err = svc.PostUrgentCall(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrInstitutionNotFound)
}

func TestDeleteUrgentCall(t *testing.T) {
	svc := newTestService()

	call, err := svc.PostUrgentCall(context.Background(), validCall())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUrgentCall(context.Background(), call.ID))
	require.ErrorIs(t, svc.DeleteUrgentCall(context.Background(), call.ID), ports.ErrCampaignNotFound)

	views, err := svc.ListUrgentCalls(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestPostBloodDrive_Persists(t *testing.T) {
	svc := newTestService()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	drive, err := svc.PostBloodDrive(context.Background(), ports.PostBloodDriveInput{
		BloodBankID: bankID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		Phone:       "0223456789",
		Description: "campus collection drive",
	})
	require.NoError(t, err)
	require.NotZero(t, drive.ID)

	views, err := svc.ListBloodDrives(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "Central Blood Bank", views[0].BloodBank.Name)
}

func TestPostBloodDrive_RejectsInvertedPeriod(t *testing.T) {
	svc := newTestService()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.PostBloodDrive(context.Background(), ports.PostBloodDriveInput{
		BloodBankID: bankID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, -1),
		Phone:       "0223456789",
		Description: "campus collection drive",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPeriod)
}
