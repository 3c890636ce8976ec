package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	donorsmemory "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/memory"
	donorspostgres "github.com/bloodlink/bloodlink-api/internal/domains/donors/adapters/persistence/postgres"
	donorsapp "github.com/bloodlink/bloodlink-api/internal/domains/donors/application"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"

	institutionsmemory "github.com/bloodlink/bloodlink-api/internal/domains/institutions/adapters/memory"
	institutionspostgres "github.com/bloodlink/bloodlink-api/internal/domains/institutions/adapters/persistence/postgres"
	institutionsapp "github.com/bloodlink/bloodlink-api/internal/domains/institutions/application"
	institutionsports "github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"

	inventorymemory "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"

	"github.com/bloodlink/bloodlink-api/internal/platform/migrations"
	platformobservability "github.com/bloodlink/bloodlink-api/internal/platform/observability"
	platformpostgres "github.com/bloodlink/bloodlink-api/internal/platform/postgres"
	donationactivities "github.com/bloodlink/bloodlink-api/internal/platform/temporal/activities/donations"
	donationworkflows "github.com/bloodlink/bloodlink-api/internal/platform/temporal/workflows/donations"
)

func main() {
	ctx := context.Background()
	const serviceName = "bloodlink-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
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
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	donorService := buildDonorService(db)
	activities := donationactivities.NewActivities(donorService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, donationworkflows.DonationIntakeTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(donationworkflows.DonationIntakeWorkflow, workflow.RegisterOptions{Name: donationworkflows.DonationIntakeWorkflowName})
	w.RegisterActivityWithOptions(activities.RecordDonation, activity.RegisterOptions{Name: donationactivities.RecordDonationActivityName})

	logger.Info("worker listening", slog.String("taskQueue", donationworkflows.DonationIntakeTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildDonorService assembles the donation intake dependencies. The
// worker never issues sessions, so the session store stays nil.
func buildDonorService(db *gorm.DB) donorsports.Service {
	var (
		stock            inventoryports.SeededStore
		donorRepo        donorsports.Repository
		donationRepo     donorsports.DonationRepository
		institutionsRepo institutionsports.Repository
	)
	if db != nil {
		stock = inventorypostgres.NewStore(db)
		donorRepo = donorspostgres.NewRepository(db)
		donationRepo = donorspostgres.NewDonationRepository(db)
		institutionsRepo = institutionspostgres.NewRepository(db)
	} else {
		stock = inventorymemory.NewStore()
		donorRepo = donorsmemory.NewRepository()
		donationRepo = donorsmemory.NewDonationRepository()
		institutionsRepo = institutionsmemory.NewRepository()
	}
	institutionService := institutionsapp.NewService(institutionsRepo, nil, stock)
	directory := summaryDirectory{institutions: institutionService}
	return donorsapp.NewService(donorRepo, donationRepo, nil, stock, directory, criticalDiseasesFromEnv())
}

type summaryDirectory struct {
	institutions institutionsports.Service
}

func (d summaryDirectory) Summary(ctx context.Context, id int64) (donorsports.InstitutionSummary, error) {
	summary, err := d.institutions.Summary(ctx, id)
	if err != nil {
		return donorsports.InstitutionSummary{}, donorsports.ErrInstitutionNotFound
	}
	return donorsports.InstitutionSummary{
		ID:      summary.ID,
		Name:    summary.Name,
		Phone:   summary.Phone,
		Address: summary.Address,
	}, nil
}

func criticalDiseasesFromEnv() []string {
	raw := strings.TrimSpace(os.Getenv("CRITICAL_DISEASES"))
	if raw == "" {
		return []string{"hiv", "hepatitis b", "hepatitis c", "syphilis"}
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
