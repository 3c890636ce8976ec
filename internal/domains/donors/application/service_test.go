package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authmemory "github.com/bloodlink/bloodlink-api/internal/domains/auth/adapters/memory"
	inventorymemory "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/memory"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	donorsmemory "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/memory"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
)

const institutionID = int64(7)

type fakeDirectory struct {
	known map[int64]ports.InstitutionSummary
}

func (d *fakeDirectory) Summary(_ context.Context, id int64) (ports.InstitutionSummary, error) {
	if summary, ok := d.known[id]; ok {
		return summary, nil
	}
	return ports.InstitutionSummary{}, ports.ErrInstitutionNotFound
}

func newTestService(t *testing.T, criticalDiseases ...string) (*Service, *inventorymemory.Store) {
	t.Helper()
	stock := inventorymemory.NewStore()
	require.NoError(t, stock.Seed(context.Background(), institutionID))
	directory := &fakeDirectory{known: map[int64]ports.InstitutionSummary{
		institutionID: {ID: institutionID, Name: "Central Blood Bank", Phone: "0223456789"},
	}}
	svc := NewService(donorsmemory.NewRepository(), donorsmemory.NewDonationRepository(),
		authmemory.NewSessionStore(time.Hour), stock, directory, criticalDiseases)
	return svc, stock
}

func validRegistration() ports.RegisterInput {
	return ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "s3cret-pass",
		BirthDate: time.Now().AddDate(-30, 0, 0),
		Gender:    domain.GenderFemale,
		Phone:     "01000000000",
		BloodType: inventorydomain.OPositive,
		Gov:       "5",
		City:      "12",
	}
}

func register(t *testing.T, svc *Service) *domain.Donor {
	t.Helper()
	donor, token, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return donor
}

func stockLevel(t *testing.T, stock *inventorymemory.Store, bloodType inventorydomain.BloodType) int32 {
	t.Helper()
	entries, err := stock.GetStock(context.Background(), institutionID)
	require.NoError(t, err)
	for _, e := range entries {
		if e.BloodType == bloodType {
			return e.Count
		}
	}
	return 0
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	svc, _ := newTestService(t)
	donor := register(t, svc)

	require.NotZero(t, donor.ID)
	require.NotEqual(t, "s3cret-pass", donor.PasswordHash)
	require.Zero(t, donor.DonationTimes)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc)

	_, _, err := svc.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newTestService(t)
	input := validRegistration()
	input.Password = "short"

	_, _, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestSignIn_Succeeds(t *testing.T) {
	svc, _ := newTestService(t)
	registered := register(t, svc)

	donor, token, err := svc.SignIn(context.Background(), "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, registered.ID, donor.ID)
	require.NotEmpty(t, token)
}

func TestSignIn_RejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc)

	_, _, err := svc.SignIn(context.Background(), "ada@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	_, _, err = svc.SignIn(context.Background(), "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestUpdate_PatchesProfile(t *testing.T) {
	svc, _ := newTestService(t)
	donor := register(t, svc)

	phone := "01599999999"
	diseases := []string{"Diabetes"}
	updated, err := svc.Update(context.Background(), donor.ID, ports.UpdateInput{Phone: &phone, Diseases: &diseases})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)
	require.Equal(t, []string{"diabetes"}, updated.Diseases)
	require.Equal(t, donor.FirstName, updated.FirstName)
}

func TestRecordDonation_CreditsStockAndBumpsTally(t *testing.T) {
	svc, stock := newTestService(t)
	donor := register(t, svc)

	donation, err := svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: institutionID})
	require.NoError(t, err)
	require.Equal(t, donor.BloodType, donation.BloodType)
	require.Equal(t, int32(1), stockLevel(t, stock, donor.BloodType))

	reloaded, err := svc.GetByID(context.Background(), donor.ID)
	require.NoError(t, err)
	require.Equal(t, int32(1), reloaded.DonationTimes)
	require.NotNil(t, reloaded.LastDonationDate)
}

func TestRecordDonation_EnforcesThreeMonthGap(t *testing.T) {
	svc, stock := newTestService(t)
	donor := register(t, svc)

	first := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	_, err := svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: institutionID, DonatedAt: first})
	require.NoError(t, err)

	_, err = svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: institutionID, DonatedAt: first.AddDate(0, 1, 0)})
	require.ErrorIs(t, err, ErrNotEligible)
	require.ErrorIs(t, err, domain.ErrRecentDonation)
	require.Equal(t, int32(1), stockLevel(t, stock, donor.BloodType))

	_, err = svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: institutionID, DonatedAt: first.AddDate(0, 4, 0)})
	require.NoError(t, err)
	require.Equal(t, int32(2), stockLevel(t, stock, donor.BloodType))
}

func TestRecordDonation_CriticalDiseaseBlocks(t *testing.T) {
	svc, stock := newTestService(t, "hiv", "hbv")
	donor := register(t, svc)

	diseases := []string{"HBV"}
	_, err := svc.Update(context.Background(), donor.ID, ports.UpdateInput{Diseases: &diseases})
	require.NoError(t, err)

	_, err = svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: institutionID})
	require.ErrorIs(t, err, ErrNotEligible)
	require.ErrorIs(t, err, domain.ErrCriticalDisease)
	require.Equal(t, int32(0), stockLevel(t, stock, donor.BloodType))
}

func TestRecordDonation_UnknownInstitution(t *testing.T) {
	svc, _ := newTestService(t)
	donor := register(t, svc)

	_, err := svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: 404})
	require.ErrorIs(t, err, ports.ErrInstitutionNotFound)
}

func TestDonationListings(t *testing.T) {
	svc, _ := newTestService(t)
	donor := register(t, svc)

	_, err := svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: donor.ID, InstitutionID: institutionID})
	require.NoError(t, err)

	byDonor, err := svc.DonationsByDonor(context.Background(), donor.ID)
	require.NoError(t, err)
	require.Len(t, byDonor, 1)
	require.Equal(t, "Central Blood Bank", byDonor[0].Institution.Name)

	byInstitution, err := svc.DonationsByInstitution(context.Background(), institutionID)
	require.NoError(t, err)
	require.Len(t, byInstitution, 1)
	require.Equal(t, donor.FullName(), byInstitution[0].DonorName)
	require.Equal(t, donor.BloodType, byInstitution[0].BloodType)
}

func TestTopDonors_OrdersByDonationCount(t *testing.T) {
	svc, _ := newTestService(t)
	first := register(t, svc)

	second := validRegistration()
	second.Email = "grace@example.com"
	secondDonor, _, err := svc.Register(context.Background(), second)
	require.NoError(t, err)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err = svc.RecordDonation(context.Background(),
			ports.RecordDonationInput{DonorID: secondDonor.ID, InstitutionID: institutionID, DonatedAt: at.AddDate(0, 4*i, 0)})
		require.NoError(t, err)
	}
	_, err = svc.RecordDonation(context.Background(),
		ports.RecordDonationInput{DonorID: first.ID, InstitutionID: institutionID, DonatedAt: at})
	require.NoError(t, err)

	heroes, err := svc.TopDonors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, heroes, 2)
	require.Equal(t, secondDonor.ID, heroes[0].ID)
	require.Equal(t, int32(2), heroes[0].DonationTimes)
}
