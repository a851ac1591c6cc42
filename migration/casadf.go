package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/models"
)

const (
	VersionEnumTypes = "20250101000001"
	VersionTables    = "20250101000002"
)

// SchemaMigrations returns the migrations that build the CasaDF schema from
// an empty database.
func SchemaMigrations() []*Migration {
	return []*Migration{
		{
			Version: VersionEnumTypes,
			Name:    "create_enum_types",
			Up:      createEnumTypes,
			Down:    dropEnumTypes,
		},
		{
			Version: VersionTables,
			Name:    "create_tables",
			Up:      createTables,
			Down:    dropTables,
		},
	}
}

// RegisterSchemaMigrations adds SchemaMigrations to the global registry.
func RegisterSchemaMigrations() {
	for _, m := range SchemaMigrations() {
		RegisterMigration(m)
	}
}

func isPostgres(tx *gorm.DB) bool {
	return tx.Dialector.Name() == "postgres"
}

// enumTypeSQL creates the type unless it already exists.
func enumTypeSQL(e models.EnumType) string {
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprintf(
		`DO $$ BEGIN CREATE TYPE %q AS ENUM (%s); EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		e.Name, strings.Join(quoted, ", "),
	)
}

// Enum columns are varchar outside Postgres, so there is nothing to create.
func createEnumTypes(tx *gorm.DB) error {
	if !isPostgres(tx) {
		return nil
	}
	for _, e := range models.EnumTypes() {
		if err := tx.Exec(enumTypeSQL(e)).Error; err != nil {
			return fmt.Errorf("create type %s: %w", e.Name, err)
		}
	}
	return nil
}

func dropEnumTypes(tx *gorm.DB) error {
	if !isPostgres(tx) {
		return nil
	}
	types := models.EnumTypes()
	for i := len(types) - 1; i >= 0; i-- {
		if err := tx.Exec(fmt.Sprintf(`DROP TYPE IF EXISTS %q`, types[i].Name)).Error; err != nil {
			return fmt.Errorf("drop type %s: %w", types[i].Name, err)
		}
	}
	return nil
}

func createTables(tx *gorm.DB) error {
	return tx.AutoMigrate(models.All()...)
}

func dropTables(tx *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := tx.Migrator().DropTable(all[i]); err != nil {
			return err
		}
	}
	return nil
}
