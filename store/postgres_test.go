package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/internal/config"
	"github.com/beesaferoot/casadf-schema/internal/database"
	"github.com/beesaferoot/casadf-schema/internal/schema"
	"github.com/beesaferoot/casadf-schema/migration"
	"github.com/beesaferoot/casadf-schema/models"
	"github.com/beesaferoot/casadf-schema/store"
)

func TestPostgres_SchemaAndIntegrity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("casadf"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(config.Config{
		DatabaseDriver:  config.DriverPostgres,
		DatabaseURL:     connString,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, nil)
	require.NoError(t, err)

	m := migration.NewMigrator(db, migration.WithMigrations(migration.SchemaMigrations()...))
	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	var enums []string
	require.NoError(t, db.Raw(`SELECT typname FROM pg_type WHERE typtype = 'e' ORDER BY typname`).Scan(&enums).Error)
	assert.Contains(t, enums, "lead_status")
	assert.Contains(t, enums, "contract_status")

	problems, err := schema.CheckDatabase(db, integrity.Relations)
	require.NoError(t, err)
	assert.Empty(t, problems)

	s := store.New(db)

	owner := &models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleOwner}
	tenant := &models.User{Name: "Bruno", Email: "bruno@example.com", Role: models.RoleTenant}
	require.NoError(t, s.CreateUser(ctx, owner))
	require.NoError(t, s.CreateUser(ctx, tenant))

	err = s.CreateUser(ctx, &models.User{Name: "Ana", Email: "ana@example.com"})
	assert.True(t, errors.Is(err, integrity.ErrUniqueViolation), "got %v", err)

	prop := &models.Property{
		Title: "Casa", PropertyType: models.PropertyCasa, TransactionType: models.ModeLocacao,
		RentPrice: decimal.NewNullDecimal(decimal.RequireFromString("4200.00")),
		Address:   "SMPW Quadra 5", City: "Brasilia", State: "DF", OwnerID: &owner.ID,
	}
	require.NoError(t, s.CreateProperty(ctx, prop))
	c := &models.Contract{
		PropertyID: prop.ID, TenantID: tenant.ID, OwnerID: owner.ID,
		RentAmount: decimal.RequireFromString("4200.00"),
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateContract(ctx, c))

	got, err := s.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "4200.00", got.RentAmount.StringFixed(2))
	assert.True(t, got.AdminFeeRate.Decimal.Equal(models.DefaultAdminFeeRate))

	err = s.DeleteUser(ctx, tenant.ID)
	assert.True(t, errors.Is(err, integrity.ErrReferentialIntegrity), "got %v", err)

	require.NoError(t, s.DeleteProperty(ctx, prop.ID))
	_, err = s.GetContract(ctx, c.ID)
	assert.True(t, errors.Is(err, integrity.ErrNotFound))
	require.NoError(t, s.DeleteUser(ctx, tenant.ID))

	// concurrent creates race past the precheck; the unique index decides
	const racers = 4
	var (
		wg   sync.WaitGroup
		errs = make([]error, racers)
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateUser(ctx, &models.User{Name: "Duplo", Email: "duplo@example.com"})
		}(i)
	}
	wg.Wait()
	var created, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, integrity.ErrUniqueViolation):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, racers-1, duplicates)

	reverted, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, migration.VersionTables, reverted.Version)
}
