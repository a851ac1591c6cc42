package schema

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
)

// Inspector reads the constraints a database actually carries.
type Inspector struct {
	db *gorm.DB
}

func NewInspector(db *gorm.DB) *Inspector {
	return &Inspector{db: db}
}

func (i *Inspector) GetTables() ([]string, error) {
	return i.db.Migrator().GetTables()
}

// ForeignKeys returns the foreign keys deployed on tableName, ordered by column.
func (i *Inspector) ForeignKeys(tableName string) ([]ForeignKey, error) {
	if tableName == "" {
		return []ForeignKey{}, nil
	}

	var (
		fks []ForeignKey
		err error
	)
	switch i.db.Dialector.Name() {
	case "postgres":
		fks, err = i.postgresForeignKeys(tableName)
	case "sqlite":
		fks, err = i.sqliteForeignKeys(tableName)
	default:
		return nil, fmt.Errorf("foreign key inspection is not supported on %s", i.db.Dialector.Name())
	}
	if err != nil {
		return nil, err
	}

	nullable, err := i.nullableColumns(tableName)
	if err != nil {
		return nil, err
	}
	for n := range fks {
		fks[n].Nullable = nullable[fks[n].Column]
	}
	sort.Slice(fks, func(a, b int) bool { return fks[a].Column < fks[b].Column })
	return fks, nil
}

func (i *Inspector) postgresForeignKeys(tableName string) ([]ForeignKey, error) {
	query := `
	SELECT
		tc.constraint_name,
		kcu.column_name,
		ccu.table_name AS referenced_table_name,
		ccu.column_name AS referenced_column_name,
		rc.delete_rule AS on_delete
	FROM
		information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints AS rc
			ON tc.constraint_name = rc.constraint_name
			AND tc.table_schema = rc.constraint_schema
	WHERE
		tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = current_schema()
		AND tc.table_name = ?
	ORDER BY
		tc.constraint_name, kcu.ordinal_position;
	`

	rows, err := i.db.Raw(query, tableName).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to get relationships for table %s: %w", tableName, err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		fk := ForeignKey{Table: tableName}
		if err := rows.Scan(&fk.Name, &fk.Column, &fk.RefTable, &fk.RefColumn, &fk.OnDelete); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key row: %w", err)
		}
		fk.OnDelete = strings.ToUpper(fk.OnDelete)
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func (i *Inspector) sqliteForeignKeys(tableName string) ([]ForeignKey, error) {
	rows, err := i.db.Raw("SELECT id, \"table\", \"from\", \"to\", on_delete FROM pragma_foreign_key_list(?)", tableName).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to get relationships for table %s: %w", tableName, err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var (
			id int
			to sql.NullString
		)
		fk := ForeignKey{Table: tableName}
		if err := rows.Scan(&id, &fk.RefTable, &fk.Column, &to, &fk.OnDelete); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key row: %w", err)
		}
		// an omitted column list references the primary key
		fk.RefColumn = "id"
		if to.Valid && to.String != "" {
			fk.RefColumn = to.String
		}
		fk.Name = fmt.Sprintf("%s#%d", tableName, id)
		fk.OnDelete = strings.ToUpper(fk.OnDelete)
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func (i *Inspector) nullableColumns(tableName string) (map[string]bool, error) {
	columns, err := i.db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	out := make(map[string]bool, len(columns))
	for _, c := range columns {
		if nullable, ok := c.Nullable(); ok {
			out[c.Name()] = nullable
		}
	}
	return out, nil
}

// CheckDatabase compares the constraints deployed on every child table of
// rules with the rules themselves.
func CheckDatabase(db *gorm.DB, rules []integrity.Relation) ([]string, error) {
	inspector := NewInspector(db)
	existing, err := inspector.GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, t := range existing {
		present[t] = true
	}

	var problems []string
	checked := make(map[string]bool)
	for _, rel := range rules {
		if checked[rel.Child] {
			continue
		}
		checked[rel.Child] = true
		if !present[rel.Child] {
			problems = append(problems, fmt.Sprintf("%s: table does not exist", rel.Child))
			continue
		}

		fks, err := inspector.ForeignKeys(rel.Child)
		if err != nil {
			return nil, err
		}
		deployed := make(map[string]ForeignKey, len(fks))
		for _, fk := range fks {
			deployed[fk.Column] = fk
			r, ok := integrity.Lookup(rules, fk.Table, fk.Column)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s.%s: constraint %s has no rule", fk.Table, fk.Column, fk.Name))
				continue
			}
			problems = append(problems, mismatches(fk, r)...)
		}
		for _, r := range rules {
			if r.Child != rel.Child {
				continue
			}
			fk, ok := deployed[r.Column]
			if !ok {
				problems = append(problems, fmt.Sprintf("%s: %s.%s has no constraint in the database", r.Name, r.Child, r.Column))
				continue
			}
			if r.OnDelete == integrity.SetNull && !fk.Nullable {
				problems = append(problems, fmt.Sprintf("%s: %s.%s is NOT NULL but the rule sets it to null", r.Name, r.Child, r.Column))
			}
		}
	}
	return problems, nil
}
