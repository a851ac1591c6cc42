package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/casadf-schema/migration"
	"github.com/beesaferoot/casadf-schema/migration/commands"
	"github.com/beesaferoot/casadf-schema/models"
)

type casadfModels struct{}

func (casadfModels) GetModels() map[string]interface{} {
	return models.ModelTypeRegistry
}

func init() {
	migration.GlobalModelRegistry = casadfModels{}
	migration.RegisterSchemaMigrations()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "casadf-schema",
		Short:         "CasaDF schema migrations and integrity checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(commands.EnvFileFlag, ".env", "Optional .env file loaded before reading the environment")

	rootCmd.AddCommand(
		commands.RegisterCmd(),
		commands.InitCmd(),
		commands.CreateCmd(),
		commands.UpCmd(),
		commands.DownCmd(),
		commands.StatusCmd(),
		commands.HistoryCmd(),
		commands.ValidateCmd(),
		commands.CheckRulesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
