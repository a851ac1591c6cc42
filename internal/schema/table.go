package schema

import (
	"sort"
	"strings"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

// Table represents a gorm model
type Table struct {
	*GORMSchema.Schema
	Columns []*Column
}

// ForeignKey is a constraint declared through a belongs-to association tag.
type ForeignKey struct {
	Name      string
	Table     string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
	Nullable  bool
}

func (t *Table) TableName() string {
	return t.Table
}

func (t *Table) TableColumns() []*Column {
	return t.Columns
}

// Column returns the column with the given database name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.DBName == name {
			return c, true
		}
	}
	return nil, false
}

// ForeignKeys lists the constraints owned by this table, ordered by column.
func (t *Table) ForeignKeys() []ForeignKey {
	var fks []ForeignKey
	for _, rel := range t.Relationships.Relations {
		c := rel.ParseConstraint()
		if c == nil || c.Schema != t.Schema {
			continue
		}
		for i, fk := range c.ForeignKeys {
			fks = append(fks, ForeignKey{
				Name:      c.Name,
				Table:     t.Table,
				Column:    fk.DBName,
				RefTable:  c.ReferenceSchema.Table,
				RefColumn: c.References[i].DBName,
				OnDelete:  strings.ToUpper(strings.TrimSpace(c.OnDelete)),
				Nullable:  !fk.NotNull && !fk.PrimaryKey,
			})
		}
	}
	sort.Slice(fks, func(i, j int) bool { return fks[i].Column < fks[j].Column })
	return fks
}

var cache = &sync.Map{}

func CreateTableFromModel(model interface{}) (*Table, error) {
	modelSchema, err := GORMSchema.Parse(model, cache, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, err
	}

	columns := make([]*Column, 0, len(modelSchema.Fields))
	for _, field := range modelSchema.Fields {
		if field.DBName == "" {
			continue
		}
		columns = append(columns, &Column{Field: field})
	}

	return &Table{Schema: modelSchema, Columns: columns}, nil
}

// CreateTables parses every model, keeping the given order.
func CreateTables(models []interface{}) ([]*Table, error) {
	tables := make([]*Table, 0, len(models))
	for _, m := range models {
		t, err := CreateTableFromModel(m)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
