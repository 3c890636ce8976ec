package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	bloodlinkserver "github.com/bloodlink/bloodlink-api/server"

	authmemory "github.com/bloodlink/bloodlink-api/internal/domains/auth/adapters/memory"
	authpostgres "github.com/bloodlink/bloodlink-api/internal/domains/auth/adapters/persistence/postgres"
	authports "github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"

	inventorymemory "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	institutionsmemory "github.com/bloodlink/bloodlink-api/internal/domains/institutions/adapters/memory"
	institutionspostgres "github.com/bloodlink/bloodlink-api/internal/domains/institutions/adapters/persistence/postgres"
	institutionsapp "github.com/bloodlink/bloodlink-api/internal/domains/institutions/application"
	institutionsports "github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"

	ordersmemory "github.com/bloodlink/bloodlink-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/bloodlink/bloodlink-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/bloodlink/bloodlink-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/bloodlink/bloodlink-api/internal/domains/orders/application"
	ordersports "github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"

	donorsmemory "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/memory"
	donorspostgres "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/persistence/postgres"
	donorsworkflows "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/workflows"
	donorsapp "github.com/bloodlink/bloodlink-api/internal/domains/donors/application"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"

	campaignsmemory "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/adapters/memory"
	campaignspostgres "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/adapters/persistence/postgres"
	campaignsapp "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/application"
	campaignsports "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"

	"github.com/bloodlink/bloodlink-api/internal/platform/migrations"
	platformobservability "github.com/bloodlink/bloodlink-api/internal/platform/observability"
	platformpostgres "github.com/bloodlink/bloodlink-api/internal/platform/postgres"
)

// Run boots the BloodLink HTTP API with observability, repositories,
// and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "bloodlink-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	sessions := buildSessionStore(db, cfg.SessionTTL)
	stock := buildStockStore(db)

	institutionService := institutionsapp.NewService(buildInstitutionRepository(db), sessions, stock)
	directory := newInstitutionDirectory(institutionService)

	orderService := ordersobs.New(
		ordersapp.NewService(buildOrderRepository(db, stock), stock, ordersDirectory{directory}),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	donorRepo, donationRepo := buildDonorRepositories(db)
	donorService := donorsapp.NewService(donorRepo, donationRepo, sessions, stock,
		donorsDirectory{directory}, cfg.CriticalDiseases)

	var intake donorsports.IntakeOrchestrator = donorsworkflows.NewInlineDonationIntake(donorService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, recording donations inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		intake = donorsworkflows.NewTemporalDonationIntake(temporalClient)
		logger.Info("Temporal donation intake enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	campaignService := buildCampaignService(db, directory)

	handlers := bloodlinkserver.ApiHandleFunctions{
		InstitutionAPI: bloodlinkserver.NewInstitutionAPI(institutionService),
		OrderAPI:       bloodlinkserver.NewOrderAPI(orderService),
		DonorAPI:       bloodlinkserver.NewDonorAPI(donorService, intake),
		CampaignAPI:    bloodlinkserver.NewCampaignAPI(campaignService),
	}

	router := bloodlinkserver.NewRouter(handlers, sessions)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("BloodLink API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("BloodLink API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildSessionStore(db *gorm.DB, ttl time.Duration) authports.SessionStore {
	if db != nil {
		return authpostgres.NewSessionStore(db, ttl)
	}
	return authmemory.NewSessionStore(ttl)
}

func buildStockStore(db *gorm.DB) inventoryports.SeededStore {
	if db != nil {
		return inventorypostgres.NewStore(db)
	}
	return inventorymemory.NewStore()
}

func buildInstitutionRepository(db *gorm.DB) institutionsports.Repository {
	if db != nil {
		return institutionspostgres.NewRepository(db)
	}
	return institutionsmemory.NewRepository()
}

func buildOrderRepository(db *gorm.DB, stock inventoryports.Store) ordersports.Repository {
	if db != nil {
		return orderspostgres.NewRepository(db)
	}
	return ordersmemory.NewRepository(stock)
}

func buildDonorRepositories(db *gorm.DB) (donorsports.Repository, donorsports.DonationRepository) {
	if db != nil {
		return donorspostgres.NewRepository(db), donorspostgres.NewDonationRepository(db)
	}
	return donorsmemory.NewRepository(), donorsmemory.NewDonationRepository()
}

func buildCampaignService(db *gorm.DB, directory *institutionDirectory) campaignsports.Service {
	if db != nil {
		return campaignsapp.NewService(
			campaignspostgres.NewUrgentCallRepository(db),
			campaignspostgres.NewBloodDriveRepository(db),
			campaignsDirectory{directory},
		)
	}
	return campaignsapp.NewService(
		campaignsmemory.NewUrgentCallRepository(),
		campaignsmemory.NewBloodDriveRepository(),
		campaignsDirectory{directory},
	)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
