package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/casadf-schema/migration"
)

func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrations := migration.GetRegisteredMigrations()
			if err := migration.Validate(migrations); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "All %d migrations are valid\n", len(migrations))
			return nil
		},
	}
}
