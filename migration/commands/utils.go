package commands

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/internal/config"
	"github.com/beesaferoot/casadf-schema/internal/database"
	"github.com/beesaferoot/casadf-schema/internal/logging"
	"github.com/beesaferoot/casadf-schema/internal/metrics"
	"github.com/beesaferoot/casadf-schema/migration"
)

// EnvFileFlag names the persistent flag holding the optional .env path.
const EnvFileFlag = "env-file"

type runtime struct {
	cfg     config.Config
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (rt *runtime) migrator() *migration.Migrator {
	return migration.NewMigrator(rt.db,
		migration.WithTable(rt.cfg.MigrationsTable),
		migration.WithLogger(rt.logger.Named("migration")),
		migration.WithObserver(rt.metrics),
	)
}

// setup loads configuration and opens the database for a command.
func setup(cmd *cobra.Command) (*runtime, error) {
	envFile, _ := cmd.Flags().GetString(EnvFileFlag)
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.NewLogger(logging.Config{
		Component: "casadf-schema",
		Level:     cfg.LogLevel,
		Output:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		db:      db,
		logger:  logger,
		metrics: metrics.Registry(cfg.MetricsNS),
	}, nil
}

func validateModelPath(path string) (string, error) {
	if path == "" {
		path = "models"
	}

	cleanpath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanpath)
	if err != nil {
		return "", fmt.Errorf("invalid model path: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if !strings.HasPrefix(absPath, wd) {
		return "", fmt.Errorf("model path must be within working directory")
	}

	return absPath, nil
}

func createModelRegisterFile(dirPath string) (string, error) {
	filePath := filepath.Join(dirPath, registryFileName)
	content, err := renderModelRegistry(dirPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to create model registry file: %w", err)
	}

	return filePath, nil
}

const registryFileName = "models_registry.go"

// renderModelRegistry produces the formatted registry source for dirPath.
func renderModelRegistry(dirPath string) ([]byte, error) {
	allModels, err := getModels(dirPath)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\nvar ModelTypeRegistry = map[string]interface{}{\n", filepath.Base(dirPath))
	for _, name := range allModels {
		fmt.Fprintf(&buf, "\t%q: %s{},\n", name, name)
	}
	buf.WriteString("}\n")

	content, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format model registry: %w", err)
	}
	return content, nil
}

// registryIsCurrent reports whether the committed registry in dirPath lists
// exactly the models declared there.
func registryIsCurrent(dirPath string) (bool, error) {
	want, err := renderModelRegistry(dirPath)
	if err != nil {
		return false, err
	}
	got, err := os.ReadFile(filepath.Join(dirPath, registryFileName))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// getModels returns the sorted names of every table struct declared in dirPath.
func getModels(dirPath string) ([]string, error) {
	var allModels []string

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == registryFileName {
			continue
		}
		modelNames, err := modelParser(filepath.Join(dirPath, name))
		if err != nil {
			fmt.Printf("Warning: could not parse models from %s: %v\n", name, err)
			continue
		}
		allModels = append(allModels, modelNames...)
	}

	sort.Strings(allModels)
	return allModels, nil
}

// modelParser finds structs that embed gorm.Model or one of the local
// Model and Record base types.
func modelParser(file string) ([]string, error) {
	var modelNames []string

	fset := token.NewFileSet()

	node, err := parser.ParseFile(fset, file, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	ast.Inspect(node, func(n ast.Node) bool {
		genDecl, ok := n.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			return true
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			for _, field := range structType.Fields.List {
				if len(field.Names) == 0 && embedsBase(field.Type) {
					modelNames = append(modelNames, typeSpec.Name.Name)
					break
				}
			}
		}
		return true
	})
	return modelNames, nil
}

func embedsBase(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name == "Model" || t.Name == "Record"
	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return false
		}
		return (pkg.Name == "gorm" && t.Sel.Name == "Model") ||
			(pkg.Name == "models" && (t.Sel.Name == "Model" || t.Sel.Name == "Record"))
	}
	return false
}
