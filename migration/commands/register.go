package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func RegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register [path]",
		Short: "Write or verify the CasaDF model registry",
		Long:  `Collects the table structs (those embedding Model, Record or gorm.Model) declared under path, default 'models', and writes models_registry.go. check-rules and the parser read that registry, so with --check the command only reports whether the committed file is stale.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			}
			dir, err := validateModelPath(dir)
			if err != nil {
				return fmt.Errorf("failed to validate model path: %w", err)
			}

			if check, _ := cmd.Flags().GetBool("check"); check {
				current, err := registryIsCurrent(dir)
				if err != nil {
					return err
				}
				if !current {
					return fmt.Errorf("%s in %s is out of date; run register", registryFileName, dir)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Model registry is up to date: %s\n", dir)
				return nil
			}

			path, err := createModelRegisterFile(dir)
			if err != nil {
				return fmt.Errorf("failed to create model registry file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote model registry: %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("check", false, "Fail when the committed registry does not match the models")

	return cmd
}
