//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	inventorypostgres "github.com/bloodlink/bloodlink-api/internal/domains/inventory/adapters/persistence/postgres"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	"github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
	"github.com/bloodlink/bloodlink-api/internal/platform/migrations"
)

const (
	itBankID     = int64(1)
	itHospitalID = int64(2)
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("bloodlink_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedStocks(t *testing.T, db *gorm.DB, bankUnits int32) *inventorypostgres.Store {
	t.Helper()
	ctx := context.Background()
	stock := inventorypostgres.NewStore(db)
	require.NoError(t, stock.Seed(ctx, itBankID))
	require.NoError(t, stock.Seed(ctx, itHospitalID))
	_, err := stock.ReplaceStock(ctx, itBankID,
		[]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: bankUnits}})
	require.NoError(t, err)
	return stock
}

func pendingOrder(t *testing.T, units int32) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(
		[]inventorydomain.BloodGroupEntry{{BloodType: inventorydomain.OPositive, Count: units}},
		itBankID, itHospitalID, domain.PartyHospital, domain.PartyBloodBank)
	require.NoError(t, err)
	return order
}

func countOf(t *testing.T, stock *inventorypostgres.Store, institutionID int64) int32 {
	t.Helper()
	entries, err := stock.GetStock(context.Background(), institutionID)
	require.NoError(t, err)
	for _, e := range entries {
		if e.BloodType == inventorydomain.OPositive {
			return e.Count
		}
	}
	return 0
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, pendingOrder(t, 3))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, domain.StatusPending, saved.Status)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, saved.BloodGroup, fetched.BloodGroup)
	assert.Equal(t, domain.PartyBloodBank, fetched.To)

	_, err = repo.GetByID(ctx, saved.ID+100)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListByInstitution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, pendingOrder(t, 1))
		require.NoError(t, err)
	}

	banks, err := repo.ListByInstitution(ctx, domain.PartyBloodBank, itBankID)
	require.NoError(t, err)
	assert.Len(t, banks, 3)

	hospitals, err := repo.ListByInstitution(ctx, domain.PartyHospital, itHospitalID)
	require.NoError(t, err)
	assert.Len(t, hospitals, 3)

	none, err := repo.ListByInstitution(ctx, domain.PartyHospital, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_SettleApproveMovesStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	stock := seedStocks(t, db, 5)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, pendingOrder(t, 3))
	require.NoError(t, err)

	settled, err := repo.Settle(ctx, saved.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, settled.Status)
	assert.Equal(t, int32(2), countOf(t, stock, itBankID))
	assert.Equal(t, int32(3), countOf(t, stock, itHospitalID))

	_, err = repo.Settle(ctx, saved.ID, domain.StatusApproved)
	assert.ErrorIs(t, err, ports.ErrAlreadySettled)
	assert.Equal(t, int32(2), countOf(t, stock, itBankID))
}

func TestRepository_SettleInsufficientStockRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	stock := seedStocks(t, db, 2)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, pendingOrder(t, 5))
	require.NoError(t, err)

	_, err = repo.Settle(ctx, saved.ID, domain.StatusApproved)
	require.ErrorIs(t, err, inventorydomain.ErrInsufficientStock)

	// the failed settlement left both the order and the stocks alone
	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	assert.Equal(t, int32(2), countOf(t, stock, itBankID))
	assert.Equal(t, int32(0), countOf(t, stock, itHospitalID))
}

func TestRepository_SettleReject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	stock := seedStocks(t, db, 5)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, pendingOrder(t, 3))
	require.NoError(t, err)

	settled, err := repo.Settle(ctx, saved.ID, domain.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, settled.Status)
	assert.Equal(t, int32(5), countOf(t, stock, itBankID))

	_, err = repo.Settle(ctx, saved.ID, domain.StatusApproved)
	assert.ErrorIs(t, err, ports.ErrAlreadySettled)
}
