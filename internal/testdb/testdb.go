// Package testdb opens in-memory SQLite databases carrying the CasaDF schema.
package testdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/internal/config"
	"github.com/beesaferoot/casadf-schema/internal/database"
	"github.com/beesaferoot/casadf-schema/migration"
)

// Empty returns a fresh in-memory database with no tables.
func Empty(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    ":memory:",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// New returns a fresh in-memory database migrated to the full schema.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db := Empty(t)
	m := migration.NewMigrator(db, migration.WithMigrations(migration.SchemaMigrations()...))
	_, err := m.Up(context.Background())
	require.NoError(t, err)
	return db
}
