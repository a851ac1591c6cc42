package parser

import (
	"fmt"
	"sort"

	"github.com/beesaferoot/casadf-schema/internal/schema"
	"github.com/beesaferoot/casadf-schema/migration"
)

type ModelParser struct {
	models map[string]interface{}
}

func NewModelParser() (*ModelParser, error) {
	// Validate that user has provided a registry
	if err := migration.ValidateRegistry(); err != nil {
		return nil, err
	}

	p := &ModelParser{
		models: migration.GlobalModelRegistry.GetModels(),
	}

	if len(p.models) == 0 {
		return nil, fmt.Errorf("no models found in registry")
	}

	return p, nil
}

// Parse reflects every registered model into a table, ordered by model name.
func (p *ModelParser) Parse() ([]*schema.Table, error) {
	names := make([]string, 0, len(p.models))
	for name := range p.models {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		table, err := schema.CreateTableFromModel(p.models[name])
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %s with GORM: %w. Check for unsupported field types or incorrect struct tags", name, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}
