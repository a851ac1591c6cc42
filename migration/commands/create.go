package commands

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// VersionLayout formats migration versions; it sorts the same lexically and
// chronologically.
const VersionLayout = "20060102150405"

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// formatName turns free text into a snake_case migration name.
func formatName(name string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// generateMigration writes a Go file that registers an empty migration.
func generateMigration(dir, name string, now time.Time) (string, error) {
	name = formatName(name)
	if name == "" {
		return "", fmt.Errorf("migration name must contain letters or digits")
	}
	version := now.UTC().Format(VersionLayout)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `package %s

import (
	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/migration"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version: %q,
		Name:    %q,
		Up: func(tx *gorm.DB) error {
			return nil
		},
		Down: func(tx *gorm.DB) error {
			return nil
		},
	})
}
`, filepath.Base(dir), version, name)

	content, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format migration: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.go", version, name))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration file %s already exists", path)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write migration file: %w", err)
	}
	return path, nil
}

func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new migration file",
		Long:  `Writes a Go file that registers an empty migration with the given name. The package must be imported by the binary for the migration to run.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			path, err := generateMigration(dir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", path)
			return nil
		},
	}

	cmd.Flags().String("dir", "migrations", "Directory that receives the migration file")

	return cmd
}
