package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.migrator().Init(cmd.Context()); err != nil {
				return fmt.Errorf("failed to create %s table: %w", rt.cfg.MigrationsTable, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migration table %s is ready\n", rt.cfg.MigrationsTable)
			return nil
		},
	}
}
