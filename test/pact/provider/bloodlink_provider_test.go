//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/bloodlink/bloodlink-api/test/pact"

	bloodlinkserver "github.com/bloodlink/bloodlink-api/server"

	authmemory "github.com/bloodlink/bloodlink-api/internal/domains/auth/adapters/memory"
	campaignsmemory "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/adapters/memory"
	campaignsapp "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/application"
	campaignsports "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
	donorsmemory "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/memory"
	donorsworkflows "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/workflows"
	donorsapp "github.com/bloodlink/bloodlink-api/internal/domains/donors/application"
	donorsdomain "github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
	institutionsmemory "github.com/bloodlink/bloodlink-api/internal/domains/institutions/adapters/memory"
	institutionsapp "github.com/bloodlink/bloodlink-api/internal/domains/institutions/application"
	institutionsdomain "github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
	institutionsports "github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"
	inventorymemory "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/memory"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	ordersmemory "github.com/bloodlink/bloodlink-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/bloodlink/bloodlink-api/internal/domains/orders/application"
	ordersports "github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestBloodlinkProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateUrgentCallsExist: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedUrgentCall(t)
			}
			return nil, nil
		},
		pacttest.StateBloodDrivesExist: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedBloodDrive(t)
			}
			return nil, nil
		},
		pacttest.StateHeroesBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedDonor(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	institutions institutionsports.Service
	campaigns    campaignsports.Service
	donors       donorsports.Service
	server       *httptest.Server

	hospitalID  int64
	bloodBankID int64
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	sessions := authmemory.NewSessionStore(time.Hour)
	stock := inventorymemory.NewStore()
	institutionService := institutionsapp.NewService(institutionsmemory.NewRepository(), sessions, stock)
	directory := contractDirectory{institutions: institutionService}

	orderService := ordersapp.NewService(ordersmemory.NewRepository(stock), stock, ordersDirectory{directory})
	campaignService := campaignsapp.NewService(
		campaignsmemory.NewUrgentCallRepository(),
		campaignsmemory.NewBloodDriveRepository(),
		campaignsDirectory{directory},
	)
	donorService := donorsapp.NewService(donorsmemory.NewRepository(), donorsmemory.NewDonationRepository(),
		sessions, stock, donorsDirectory{directory}, nil)
	intake := donorsworkflows.NewInlineDonationIntake(donorService)

	handlers := bloodlinkserver.ApiHandleFunctions{
		InstitutionAPI: bloodlinkserver.NewInstitutionAPI(institutionService),
		OrderAPI:       bloodlinkserver.NewOrderAPI(orderService),
		DonorAPI:       bloodlinkserver.NewDonorAPI(donorService, intake),
		CampaignAPI:    bloodlinkserver.NewCampaignAPI(campaignService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = bloodlinkserver.NewRouterWithGinEngine(router, handlers, sessions)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	app := &contractProviderApp{
		institutions: institutionService,
		campaigns:    campaignService,
		donors:       donorService,
		server:       server,
	}
	app.seedInstitutions(t)
	return app
}

func (a *contractProviderApp) seedInstitutions(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	hospital, err := a.institutions.Register(ctx, institutionsports.RegisterInput{
		Kind:     institutionsdomain.KindHospital,
		Name:     "Pact General Hospital",
		Email:    "pact.hospital@example.com",
		Password: "pact-password",
		Phone:    "0223456789",
		Gov:      "4",
		City:     "12",
		Address:  "12 Contract St",
	})
	require.NoError(t, err)
	a.hospitalID = hospital.ID

	bank, err := a.institutions.Register(ctx, institutionsports.RegisterInput{
		Kind:     institutionsdomain.KindBloodBank,
		Name:     "Pact Central Blood Bank",
		Email:    "pact.bank@example.com",
		Password: "pact-password",
		Phone:    "0223456789",
		Gov:      "4",
		Address:  "98 Contract Ave",
	})
	require.NoError(t, err)
	a.bloodBankID = bank.ID
}

func (a *contractProviderApp) seedUrgentCall(t testing.TB) {
	t.Helper()
	_, err := a.campaigns.PostUrgentCall(context.Background(), campaignsports.PostUrgentCallInput{
		HospitalID:  a.hospitalID,
		Gov:         "4",
		City:        "12",
		Description: "Urgent need after a traffic accident",
		BloodGroup:  []inventorydomain.BloodGroupEntry{{BloodType: "O-", Count: 5}},
	})
	require.NoError(t, err)
}

func (a *contractProviderApp) seedBloodDrive(t testing.TB) {
	t.Helper()
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	_, err := a.campaigns.PostBloodDrive(context.Background(), campaignsports.PostBloodDriveInput{
		BloodBankID: a.bloodBankID,
		StartDate:   start,
		EndDate:     start.Add(2 * 24 * time.Hour),
		Phone:       "0223456789",
		Description: "Quarterly community blood drive",
	})
	require.NoError(t, err)
}

func (a *contractProviderApp) seedDonor(t testing.TB) {
	t.Helper()
	_, _, err := a.donors.Register(context.Background(), donorsports.RegisterInput{
		FirstName: "Pact",
		LastName:  "Donor",
		Email:     "pact.donor@example.com",
		Password:  "pact-password",
		BirthDate: time.Date(1994, 3, 21, 0, 0, 0, 0, time.UTC),
		Gender:    donorsdomain.GenderMale,
		Phone:     "01001234567",
		BloodType: "O-",
		Gov:       "4",
		City:      "12",
	})
	if err != nil && !errors.Is(err, donorsports.ErrEmailTaken) {
		t.Fatalf("seed donor: %v", err)
	}
}

// The directory adapters bridge the institutions service to the
// directory ports the other contexts consume.

type contractDirectory struct {
	institutions institutionsports.Service
}

type ordersDirectory struct{ contractDirectory }

func (d ordersDirectory) Summary(ctx context.Context, id int64) (ordersports.InstitutionSummary, error) {
	summary, err := d.institutions.Summary(ctx, id)
	if err != nil {
		return ordersports.InstitutionSummary{}, ordersports.ErrInstitutionNotFound
	}
	return ordersports.InstitutionSummary{ID: summary.ID, Name: summary.Name, Phone: summary.Phone, Address: summary.Address}, nil
}

type donorsDirectory struct{ contractDirectory }

func (d donorsDirectory) Summary(ctx context.Context, id int64) (donorsports.InstitutionSummary, error) {
	summary, err := d.institutions.Summary(ctx, id)
	if err != nil {
		return donorsports.InstitutionSummary{}, donorsports.ErrInstitutionNotFound
	}
	return donorsports.InstitutionSummary{ID: summary.ID, Name: summary.Name, Phone: summary.Phone, Address: summary.Address}, nil
}

type campaignsDirectory struct{ contractDirectory }

func (d campaignsDirectory) Summary(ctx context.Context, id int64) (campaignsports.InstitutionSummary, error) {
	summary, err := d.institutions.Summary(ctx, id)
	if err != nil {
		return campaignsports.InstitutionSummary{}, campaignsports.ErrInstitutionNotFound
	}
	return campaignsports.InstitutionSummary{ID: summary.ID, Name: summary.Name, Phone: summary.Phone, Address: summary.Address}, nil
}
