package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/internal/schema"
	"github.com/beesaferoot/casadf-schema/migration/parser"
)

func CheckRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-rules",
		Short: "Compare model foreign keys with the referential-action table",
		Long:  `Compares the constraints declared on the registered models with the referential-action table. With --database the constraints deployed in the configured database are checked as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parser.NewModelParser()
			if err != nil {
				return err
			}
			tables, err := p.Parse()
			if err != nil {
				return err
			}
			problems := schema.CheckRelations(tables, integrity.Relations)

			if live, _ := cmd.Flags().GetBool("database"); live {
				rt, err := setup(cmd)
				if err != nil {
					return err
				}
				defer rt.close()

				deployed, err := schema.CheckDatabase(rt.db, integrity.Relations)
				if err != nil {
					return fmt.Errorf("inspect database: %w", err)
				}
				problems = append(problems, deployed...)
			}

			out := cmd.OutOrStdout()
			for _, problem := range problems {
				fmt.Fprintln(out, problem)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d relation(s) disagree with the rules", len(problems))
			}

			fmt.Fprintf(out, "%-40s  %-32s  %-9s\n", "Relation", "Column", "On Delete")
			for _, rel := range integrity.Relations {
				fmt.Fprintf(out, "%-40s  %-32s  %-9s\n", rel.Name, rel.Child+"."+rel.Column, rel.OnDelete)
			}
			return nil
		},
	}

	cmd.Flags().Bool("database", false, "Also inspect the constraints deployed in the database")
	cmd.Flags().Bool("debug", false, "Enable debug output")

	return cmd
}
